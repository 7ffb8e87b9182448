package tourlog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound   = errors.New("tour log not found")
	ErrValidation = errors.New("invalid tour log")
)

// Store lists the logs of a tour newest first, then by rating descending
// and id.
type Store interface {
	ListLogsForTour(ctx context.Context, tourID string) ([]TourLog, error)
	GetLog(ctx context.Context, id string) (TourLog, error)
	CreateLog(ctx context.Context, l TourLog) (TourLog, error)
	UpdateLog(ctx context.Context, l TourLog) error
	IncrementVotes(ctx context.Context, id string) (TourLog, error)
	DeleteLog(ctx context.Context, id string) error
}

const Columns = `id::text, tour_id::text, logged_at, comment, difficulty,
	total_distance_km, total_time_sec, rating, votes`

func ScanRow(row pgx.Row) (TourLog, error) {
	var l TourLog
	if err := row.Scan(&l.ID, &l.TourID, &l.Date, &l.Comment, &l.Difficulty,
		&l.TotalDistanceKm, &l.TotalTimeSec, &l.Rating, &l.Votes); err != nil {
		return TourLog{}, err
	}
	l.Date = l.Date.UTC()
	return l, nil
}
