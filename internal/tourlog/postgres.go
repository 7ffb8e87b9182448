package tourlog

import (
	"context"
	"errors"
	"fmt"

	"tourplanner/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(db db.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListLogsForTour(ctx context.Context, tourID string) ([]TourLog, error) {
	logs := []TourLog{}
	if _, err := uuid.Parse(tourID); err != nil {
		return logs, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+Columns+`
		FROM tour_logs WHERE tour_id=$1
		ORDER BY logged_at DESC, rating DESC, id
	`, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		l, err := ScanRow(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *PostgresStore) GetLog(ctx context.Context, id string) (TourLog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TourLog{}, ErrNotFound
	}
	l, err := ScanRow(s.db.QueryRow(ctx, `SELECT `+Columns+` FROM tour_logs WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return TourLog{}, ErrNotFound
	}
	return l, err
}

func (s *PostgresStore) CreateLog(ctx context.Context, l TourLog) (TourLog, error) {
	if _, err := uuid.Parse(l.TourID); err != nil {
		return TourLog{}, fmt.Errorf("%w: malformed tour id %q", ErrValidation, l.TourID)
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO tour_logs (id, tour_id, logged_at, comment, difficulty, total_distance_km, total_time_sec, rating, votes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, l.ID, l.TourID, l.Date, l.Comment, l.Difficulty, l.TotalDistanceKm, l.TotalTimeSec, l.Rating, l.Votes)
	if err != nil {
		return TourLog{}, err
	}
	return l, nil
}

func (s *PostgresStore) UpdateLog(ctx context.Context, l TourLog) error {
	if _, err := uuid.Parse(l.ID); err != nil {
		return ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE tour_logs
		SET logged_at=$2, comment=$3, difficulty=$4, total_distance_km=$5, total_time_sec=$6, rating=$7
		WHERE id=$1
	`, l.ID, l.Date, l.Comment, l.Difficulty, l.TotalDistanceKm, l.TotalTimeSec, l.Rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) IncrementVotes(ctx context.Context, id string) (TourLog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TourLog{}, ErrNotFound
	}
	l, err := ScanRow(s.db.QueryRow(ctx, `
		UPDATE tour_logs SET votes = votes + 1
		WHERE id=$1
		RETURNING `+Columns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return TourLog{}, ErrNotFound
	}
	return l, err
}

func (s *PostgresStore) DeleteLog(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM tour_logs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
