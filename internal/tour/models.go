package tour

import (
	"time"

	"tourplanner/internal/shared/geo"
)

type Tour struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	From             string      `json:"from"`
	To               string      `json:"to"`
	TransportType    string      `json:"transport_type"`
	DistanceKm       float64     `json:"distance_km"`
	EstimatedTimeSec int64       `json:"estimated_time_sec"`
	Route            []geo.Point `json:"route"`
	RouteImage       string      `json:"route_image"`
	CreatedAt        time.Time   `json:"created_at"`
}

// Input carries the user editable fields of a tour. Distance, duration and
// route are always recomputed by the route provider.
type Input struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	From          string `json:"from"`
	To            string `json:"to"`
	TransportType string `json:"transport_type"`
}

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

type Listener func(action Action, t Tour)

func (t Tour) clone() Tour {
	if t.Route != nil {
		t.Route = append([]geo.Point(nil), t.Route...)
	}
	return t
}
