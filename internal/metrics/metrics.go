package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourplanner_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourplanner_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "route", "status"},
	)

	searchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourplanner_search_requests_total",
			Help: "Search and summary calls by backend and outcome.",
		},
		[]string{"backend", "op", "outcome"},
	)

	searchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourplanner_search_duration_seconds",
			Help:    "Latency of search and summary calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"backend", "op"},
	)

	cacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourplanner_cache_results_total",
			Help: "Search cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	streamEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourplanner_stream_events_total",
			Help: "Tour log change events broadcast to websocket clients.",
		},
		[]string{"action"},
	)

	streamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tourplanner_stream_clients",
			Help: "Connected websocket clients.",
		},
	)
)

func ObserveHTTP(method, route string, status int, d time.Duration) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(d.Seconds())
}

func ObserveSearch(backend, op, outcome string, d time.Duration) {
	searchRequestsTotal.WithLabelValues(backend, op, outcome).Inc()
	searchDurationSeconds.WithLabelValues(backend, op).Observe(d.Seconds())
}

func IncCacheHit()   { cacheResults.WithLabelValues("hit").Inc() }
func IncCacheMiss()  { cacheResults.WithLabelValues("miss").Inc() }
func IncCacheError() { cacheResults.WithLabelValues("error").Inc() }

func IncStreamEvent(action string) {
	streamEventsTotal.WithLabelValues(action).Inc()
}

func StreamClientConnected()    { streamClients.Inc() }
func StreamClientDisconnected() { streamClients.Dec() }

// Middleware records one observation per request, labelled by the matched
// route pattern so path parameters do not explode cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		ObserveHTTP(c.Method(), route, status, time.Since(start))
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
