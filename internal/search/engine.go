package search

import (
	"context"

	"tourplanner/internal/logging"
	"tourplanner/internal/tour"
	"tourplanner/internal/tourlog"

	"github.com/rs/zerolog"
)

// Engine searches by scanning every tour and its logs in process.
type Engine struct {
	tours  TourLister
	logs   LogLister
	logger zerolog.Logger
}

func NewEngine(tours TourLister, logs LogLister, logger zerolog.Logger) *Engine {
	return &Engine{tours: tours, logs: logs, logger: logger}
}

type scanned struct {
	tour  tour.Tour
	logs  []tourlog.TourLog
	stats Stats
}

// scan loads every tour in store order with its logs and statistics. The
// context is checked before each log fetch so a long scan stops promptly.
func (e *Engine) scan(ctx context.Context) ([]scanned, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}
	tours, err := e.tours.ListTours(ctx)
	if err != nil {
		return nil, storeError(ctx, "list tours", err)
	}
	storeOrder(tours)

	out := make([]scanned, 0, len(tours))
	for _, t := range tours {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		logs, err := e.logs.ListLogsForTour(ctx, t.ID)
		if err != nil {
			return nil, storeError(ctx, "list logs of tour "+t.ID, err)
		}
		out = append(out, scanned{tour: t, logs: logs, stats: Aggregate(logs)})
	}

	log := logging.FromContext(ctx, e.logger)
	log.Debug().Int("tours", len(out)).Msg("scanned tours")
	return out, nil
}

func (e *Engine) Search(ctx context.Context, req Request) (PagedResult, error) {
	rows, err := e.scan(ctx)
	if err != nil {
		return PagedResult{}, err
	}

	matched := make([]tour.Tour, 0, len(rows))
	for _, r := range rows {
		if MatchText(r.tour, r.logs, r.stats, req.Text) && PassesFilters(r.logs, req) {
			matched = append(matched, r.tour)
		}
	}
	SortTours(matched, req.SortBy, req.Desc)

	items, page, size, total := Paginate(matched, req.Page, req.PageSize)
	return PagedResult{Items: items, Page: page, PageSize: size, Total: total}, nil
}

func (e *Engine) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := e.scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, Summary{
			ID:                r.tour.ID,
			Name:              r.tour.Name,
			DistanceKm:        r.tour.DistanceKm,
			Popularity:        r.stats.Popularity,
			AverageRating:     r.stats.AverageRating,
			ChildFriendliness: r.stats.ChildFriendliness,
		})
	}
	return out, nil
}
