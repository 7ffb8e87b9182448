package search

import (
	"context"
	"errors"
	"time"

	"tourplanner/internal/metrics"
)

// Instrumented records call counts and latency of another Searcher.
type Instrumented struct {
	next    Searcher
	backend string
}

func Instrument(next Searcher, backend string) *Instrumented {
	return &Instrumented{next: next, backend: backend}
}

func (i *Instrumented) Search(ctx context.Context, req Request) (PagedResult, error) {
	start := time.Now()
	res, err := i.next.Search(ctx, req)
	metrics.ObserveSearch(i.backend, "search", outcome(err), time.Since(start))
	return res, err
}

func (i *Instrumented) Summaries(ctx context.Context) ([]Summary, error) {
	start := time.Now()
	res, err := i.next.Summaries(ctx)
	metrics.ObserveSearch(i.backend, "summaries", outcome(err), time.Since(start))
	return res, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
