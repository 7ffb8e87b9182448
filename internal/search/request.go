// Package search filters, sorts and pages tours and derives per-tour
// statistics from their logs. Engine evaluates everything in process over
// the tour and log stores; QueryEngine pushes the same work into
// PostgreSQL. Both produce identical results for identical data.
package search

import (
	"context"
	"time"

	"tourplanner/internal/tour"
	"tourplanner/internal/tourlog"
)

const (
	MaxPageSize     = 200
	DefaultPageSize = 20
)

type SortField int

const (
	SortByName SortField = iota
	SortByDistance
)

// ParseSortField maps "DistanceKm" to SortByDistance. Any other value,
// including the empty string, sorts by name.
func ParseSortField(s string) SortField {
	if s == "DistanceKm" {
		return SortByDistance
	}
	return SortByName
}

func (f SortField) String() string {
	if f == SortByDistance {
		return "DistanceKm"
	}
	return "Name"
}

type Request struct {
	Text      string
	MinRating *int
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    SortField
	Desc      bool
	Page      int
	PageSize  int
}

type PagedResult struct {
	Items    []tour.Tour `json:"items"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int         `json:"total"`
}

// Stats are derived from a tour's logs. AverageRating and ChildFriendliness
// are nil when the tour has no logs.
type Stats struct {
	Popularity        int      `json:"popularity"`
	AverageRating     *float64 `json:"average_rating"`
	ChildFriendliness *float64 `json:"child_friendliness"`
}

type Summary struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	DistanceKm        float64  `json:"distance_km"`
	Popularity        int      `json:"popularity"`
	AverageRating     *float64 `json:"average_rating"`
	ChildFriendliness *float64 `json:"child_friendliness"`
}

type Searcher interface {
	Search(ctx context.Context, req Request) (PagedResult, error)
	Summaries(ctx context.Context) ([]Summary, error)
}

type TourLister interface {
	ListTours(ctx context.Context) ([]tour.Tour, error)
}

type LogLister interface {
	ListLogsForTour(ctx context.Context, tourID string) ([]tourlog.TourLog, error)
}
