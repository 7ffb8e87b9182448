// Package route resolves the path between two free-text locations.
package route

import (
	"context"
	"math"
	"strings"

	"tourplanner/internal/shared/geo"
)

type Result struct {
	DistanceKm       float64
	EstimatedTimeSec int64
	Path             []geo.Point
	ImageRef         string
}

type Provider interface {
	Route(ctx context.Context, from, to, transport string) (Result, error)
}

// average travel speed in km/h per transport type
var speedKmh = map[string]float64{
	"walk":    5,
	"hike":    4,
	"bike":    15,
	"bicycle": 15,
	"car":     60,
	"bus":     40,
	"train":   80,
}

const defaultSpeedKmh = 5

// StubProvider returns a fixed demo route for every request. It never
// leaves the process, so the service runs without a directions API key.
type StubProvider struct {
	ImageRef string
}

func NewStubProvider() *StubProvider {
	return &StubProvider{ImageRef: "images/stub.png"}
}

func (p *StubProvider) Route(ctx context.Context, from, to, transport string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	path := []geo.Point{
		{Lat: 48.0, Lng: 16.0},
		{Lat: 48.01, Lng: 16.01},
	}
	dist := geo.PathLengthKm(path)
	return Result{
		DistanceKm:       dist,
		EstimatedTimeSec: TravelTimeSec(dist, transport),
		Path:             path,
		ImageRef:         p.ImageRef,
	}, nil
}

// TravelTimeSec converts a distance into whole seconds at the average speed of
// the transport type. Unknown types travel at walking pace.
func TravelTimeSec(distanceKm float64, transport string) int64 {
	speed, ok := speedKmh[strings.ToLower(strings.TrimSpace(transport))]
	if !ok {
		speed = defaultSpeedKmh
	}
	if distanceKm <= 0 {
		return 0
	}
	return int64(math.Round(distanceKm / speed * 3600))
}
