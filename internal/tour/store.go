package tour

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound   = errors.New("tour not found")
	ErrValidation = errors.New("invalid tour")
)

// Store lists tours ordered by name (byte-wise) then id.
type Store interface {
	ListTours(ctx context.Context) ([]Tour, error)
	GetTour(ctx context.Context, id string) (Tour, error)
	CreateTour(ctx context.Context, t Tour) (Tour, error)
	UpdateTour(ctx context.Context, t Tour) error
	DeleteTour(ctx context.Context, id string) error
}

// Columns is the select list matching ScanRow. It is unqualified so it can
// be applied to the tours table or to any relation exposing the same names.
const Columns = `id::text, name, description, origin, destination, transport_type,
	distance_km, estimated_time_sec, route, route_image, created_at`

func ScanRow(row pgx.Row) (Tour, error) {
	var (
		t     Tour
		route []byte
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.From, &t.To, &t.TransportType,
		&t.DistanceKm, &t.EstimatedTimeSec, &route, &t.RouteImage, &t.CreatedAt); err != nil {
		return Tour{}, err
	}
	if len(route) > 0 {
		if err := json.Unmarshal(route, &t.Route); err != nil {
			return Tour{}, fmt.Errorf("decode route of tour %s: %w", t.ID, err)
		}
	}
	return t, nil
}
