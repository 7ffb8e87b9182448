package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"tourplanner/internal/tour"
	"tourplanner/internal/tourlog"

	"github.com/rs/zerolog"
)

var errQuery = errors.New("query error")

var nopLogger = zerolog.New(io.Discard)

func ptr[T any](v T) *T { return &v }

// fakeID produces uuid-shaped ids so fixtures load into PostgreSQL too.
func fakeID(prefix, n int) string {
	return fmt.Sprintf("%08d-0000-4000-8000-%012d", prefix, n)
}

type fixture struct {
	tours []tour.Tour
	logs  []tourlog.TourLog
}

func day(d int) time.Time {
	return time.Date(2024, 5, d, 9, 0, 0, 0, time.UTC)
}

// alpsFixture is tour A "Alps Trail" (12 km, logs rated 3 and 5) and tour B
// "City Walk" (3 km, no logs).
func alpsFixture() fixture {
	a := tour.Tour{ID: fakeID(1, 1), Name: "Alps Trail", Description: "High pass", From: "Innsbruck", To: "Brenner", TransportType: "hike", DistanceKm: 12}
	b := tour.Tour{ID: fakeID(1, 2), Name: "City Walk", Description: "Old town", From: "Graz", To: "Graz", TransportType: "walk", DistanceKm: 3}
	return fixture{
		tours: []tour.Tour{b, a},
		logs: []tourlog.TourLog{
			{ID: fakeID(2, 1), TourID: a.ID, Date: day(1), Comment: "windy", Difficulty: 4, TotalDistanceKm: 12.5, TotalTimeSec: 4 * 3600, Rating: 3},
			{ID: fakeID(2, 2), TourID: a.ID, Date: day(10), Comment: "sunny", Difficulty: 3, TotalDistanceKm: 11, TotalTimeSec: 3*3600 + 1800, Rating: 5},
		},
	}
}

func numberedFixture(n int) fixture {
	var f fixture
	for i := n; i >= 1; i-- {
		f.tours = append(f.tours, tour.Tour{
			ID:            fakeID(3, i),
			Name:          fmt.Sprintf("Tour %02d", i),
			From:          "x",
			To:            "y",
			TransportType: "bike",
			DistanceKm:    float64(i),
		})
	}
	return f
}

func memoryStores(f fixture) (*tour.MemoryStore, *tourlog.MemoryStore) {
	ctx := context.Background()
	ts := tour.NewMemoryStore()
	ls := tourlog.NewMemoryStore()
	for _, t := range f.tours {
		_, _ = ts.CreateTour(ctx, t)
	}
	for _, l := range f.logs {
		_, _ = ls.CreateLog(ctx, l)
	}
	return ts, ls
}

func newMemoryEngine(f fixture) *Engine {
	ts, ls := memoryStores(f)
	return NewEngine(ts, ls, nopLogger)
}

type failingTours struct{ err error }

func (f failingTours) ListTours(context.Context) ([]tour.Tour, error) { return nil, f.err }

type failingLogs struct{ err error }

func (f failingLogs) ListLogsForTour(context.Context, string) ([]tourlog.TourLog, error) {
	return nil, f.err
}

// cancellingLogs cancels the context after the given number of fetches.
type cancellingLogs struct {
	next   LogLister
	after  int32
	calls  atomic.Int32
	cancel context.CancelFunc
}

func (c *cancellingLogs) ListLogsForTour(ctx context.Context, tourID string) ([]tourlog.TourLog, error) {
	if c.calls.Add(1) == c.after {
		c.cancel()
	}
	return c.next.ListLogsForTour(ctx, tourID)
}

// countingSearcher records how often the wrapped searcher is reached.
type countingSearcher struct {
	next      Searcher
	searches  atomic.Int32
	summaries atomic.Int32
}

func (c *countingSearcher) Search(ctx context.Context, req Request) (PagedResult, error) {
	c.searches.Add(1)
	return c.next.Search(ctx, req)
}

func (c *countingSearcher) Summaries(ctx context.Context) ([]Summary, error) {
	c.summaries.Add(1)
	return c.next.Summaries(ctx)
}

func ids(tours []tour.Tour) []string {
	out := make([]string, 0, len(tours))
	for _, t := range tours {
		out = append(out, t.ID)
	}
	return out
}

func names(tours []tour.Tour) []string {
	out := make([]string, 0, len(tours))
	for _, t := range tours {
		out = append(out, t.Name)
	}
	return out
}
