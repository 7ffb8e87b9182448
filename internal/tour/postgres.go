package tour

import (
	"context"
	"encoding/json"
	"errors"

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

func (s *PostgresStore) ListTours(ctx context.Context) ([]Tour, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+Columns+`
		FROM tours
		ORDER BY name COLLATE "C", id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tours := []Tour{}
	for rows.Next() {
		t, err := ScanRow(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

func (s *PostgresStore) GetTour(ctx context.Context, id string) (Tour, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Tour{}, ErrNotFound
	}
	t, err := ScanRow(s.db.QueryRow(ctx, `SELECT `+Columns+` FROM tours WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Tour{}, ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) CreateTour(ctx context.Context, t Tour) (Tour, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	route, err := encodeRoute(t)
	if err != nil {
		return Tour{}, err
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO tours (id, name, description, origin, destination, transport_type, distance_km, estimated_time_sec, route, route_image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::jsonb,$10)
		RETURNING created_at
	`, t.ID, t.Name, t.Description, t.From, t.To, t.TransportType, t.DistanceKm, t.EstimatedTimeSec, route, t.RouteImage)
	if err := row.Scan(&t.CreatedAt); err != nil {
		return Tour{}, err
	}
	return t, nil
}

func (s *PostgresStore) UpdateTour(ctx context.Context, t Tour) error {
	if _, err := uuid.Parse(t.ID); err != nil {
		return ErrNotFound
	}
	route, err := encodeRoute(t)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE tours
		SET name=$2, description=$3, origin=$4, destination=$5, transport_type=$6,
			distance_km=$7, estimated_time_sec=$8, route=$9::jsonb, route_image=$10
		WHERE id=$1
	`, t.ID, t.Name, t.Description, t.From, t.To, t.TransportType, t.DistanceKm, t.EstimatedTimeSec, route, t.RouteImage)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTour removes only the tour row; logs referencing it are kept.
func (s *PostgresStore) DeleteTour(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM tours WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeRoute(t Tour) (string, error) {
	if t.Route == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t.Route)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
