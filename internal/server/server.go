package server

import (
	"context"
	"time"

	"tourplanner/internal/auth"
	"tourplanner/internal/cache"
	"tourplanner/internal/config"
	"tourplanner/internal/db"
	"tourplanner/internal/logging"
	"tourplanner/internal/metrics"
	"tourplanner/internal/route"
	"tourplanner/internal/search"
	"tourplanner/internal/stream"
	"tourplanner/internal/tour"
	"tourplanner/internal/tourlog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	cachePrefix       = "tourplanner:search"
	invalidateTimeout = 2 * time.Second
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	Logger   zerolog.Logger
	Tours    *tour.Service
	Logs     *tourlog.Service
	Searcher search.Searcher
	Stream   *stream.Hub

	cache *search.Cached
}

// NewServer wires the application. A nil pg selects the in-memory stores,
// a nil rdb selects the in-process cache and local-only streaming.
func NewServer(cfg config.Config, pg db.Querier, rdb *redis.Client, logger zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{Immutable: true, DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logging.Middleware(logger))
	app.Use(metrics.Middleware())

	var (
		tourStore tour.Store
		logStore  tourlog.Store
	)
	if pg != nil {
		tourStore = tour.NewPostgresStore(pg)
		logStore = tourlog.NewPostgresStore(pg)
	} else {
		tourStore = tour.NewMemoryStore()
		logStore = tourlog.NewMemoryStore()
	}

	backend := cfg.SearchBackend
	var engine search.Searcher
	if pg != nil && backend == config.BackendQuery {
		engine = search.NewQueryEngine(pg, logger)
	} else {
		backend = config.BackendScan
		engine = search.NewEngine(tourStore, logStore, logger)
	}

	var resultCache cache.Store
	if rdb != nil {
		resultCache = cache.NewRedisStore(rdb, cachePrefix, cfg.CacheTTL)
	} else {
		resultCache = cache.NewLRUStore(cfg.CacheSize, cfg.CacheTTL)
	}
	cached := search.NewCached(search.Instrument(engine, backend), resultCache, logger)

	s := &Server{
		App:      app,
		Cfg:      cfg,
		Logger:   logger,
		Tours:    tour.NewService(tourStore, route.NewStubProvider(), logger),
		Logs:     tourlog.NewService(logStore, logger),
		Searcher: cached,
		Stream:   stream.NewHub(rdb, logger),
		cache:    cached,
	}
	s.Tours.OnChange(func(action tour.Action, t tour.Tour) {
		s.invalidate("tour", string(action), t.ID)
	})
	s.Logs.OnChange(func(action tourlog.Action, l tourlog.TourLog) {
		s.invalidate("tour_log", string(action), l.TourID)
		s.Stream.Publish(stream.Event{Action: string(action), TourID: l.TourID, Data: l})
	})

	logger.Info().
		Str("search_backend", backend).
		Bool("postgres", pg != nil).
		Bool("redis", rdb != nil).
		Msg("server configured")

	registerRoutes(s)
	return s
}

func (s *Server) invalidate(kind, action, tourID string) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()
	if err := s.cache.Invalidate(ctx); err != nil {
		s.Logger.Warn().Err(err).
			Str("kind", kind).
			Str("action", action).
			Str("tour_id", tourID).
			Msg("search cache invalidation failed")
	}
}

// Close releases the stream subscription.
func (s *Server) Close() error {
	return s.Stream.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", metrics.Handler())

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.Cfg.AdminUser, s.Cfg.AdminPasswordHash))

	tours := s.App.Group("/tours")
	search.RegisterRoutes(tours, s.Searcher)
	tour.RegisterRoutes(tours, s.Tours, jwtMiddleware)
	tourlog.RegisterRoutes(s.App, s.Logs, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
