package search

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"tourplanner/internal/cache"
	"tourplanner/internal/logging"
	"tourplanner/internal/metrics"

	"github.com/rs/zerolog"
)

// Cached memoizes results of another Searcher until Invalidate is called.
// Cache failures are logged and treated as misses.
type Cached struct {
	next   Searcher
	store  cache.Store
	logger zerolog.Logger
}

func NewCached(next Searcher, store cache.Store, logger zerolog.Logger) *Cached {
	return &Cached{next: next, store: store, logger: logger}
}

func (c *Cached) Search(ctx context.Context, req Request) (PagedResult, error) {
	return cached(ctx, c, searchKey(req), func() (PagedResult, error) {
		return c.next.Search(ctx, req)
	})
}

func (c *Cached) Summaries(ctx context.Context) ([]Summary, error) {
	return cached(ctx, c, cache.Key("summaries"), func() ([]Summary, error) {
		return c.next.Summaries(ctx)
	})
}

func (c *Cached) Invalidate(ctx context.Context) error {
	return c.store.Invalidate(ctx)
}

func cached[T any](ctx context.Context, c *Cached, key string, load func() (T, error)) (T, error) {
	log := logging.FromContext(ctx, c.logger)

	gen, cacheErr := c.store.Generation(ctx)
	if cacheErr == nil {
		val, ok, err := c.store.Get(ctx, gen, key)
		switch {
		case err != nil:
			cacheErr = err
		case ok:
			var hit T
			if err := json.Unmarshal(val, &hit); err == nil {
				metrics.IncCacheHit()
				return hit, nil
			}
			log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		}
	}
	if cacheErr != nil {
		metrics.IncCacheError()
		log.Warn().Err(cacheErr).Msg("search cache unavailable")
	} else {
		metrics.IncCacheMiss()
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if cacheErr != nil {
		return v, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v, err
	}
	if err := c.store.Set(ctx, gen, key, b); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("search cache write failed")
	}
	return v, nil
}

// searchKey identifies a request after the same normalization the engines
// apply, so equivalent requests share an entry.
func searchKey(req Request) string {
	page, size := NormalizePage(req.Page, req.PageSize)
	text := req.Text
	if isBlank(text) {
		text = ""
	}
	return cache.Key("search",
		text,
		optInt(req.MinRating),
		optTime(req.DateFrom),
		optTime(req.DateTo),
		req.SortBy.String(),
		strconv.FormatBool(req.Desc),
		strconv.Itoa(page),
		strconv.Itoa(size),
	)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func optTime(v *time.Time) string {
	if v == nil {
		return "-"
	}
	return v.UTC().Format(time.RFC3339Nano)
}
