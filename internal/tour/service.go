package tour

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"tourplanner/internal/route"

	"github.com/rs/zerolog"
)

const maxNameLen = 200

type Service struct {
	store  Store
	routes route.Provider
	logger zerolog.Logger

	mu        sync.RWMutex
	listeners []Listener
}

func NewService(store Store, routes route.Provider, logger zerolog.Logger) *Service {
	return &Service{store: store, routes: routes, logger: logger}
}

// OnChange registers fn to be called after every successful mutation.
func (s *Service) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Service) notify(action Action, t Tour) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(action, t)
	}
}

func (s *Service) List(ctx context.Context) ([]Tour, error) {
	return s.store.ListTours(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Tour, error) {
	return s.store.GetTour(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Tour, error) {
	in, err := normalize(in)
	if err != nil {
		return Tour{}, err
	}
	t := Tour{
		Name:          in.Name,
		Description:   in.Description,
		From:          in.From,
		To:            in.To,
		TransportType: in.TransportType,
	}
	if err := s.applyRoute(ctx, &t); err != nil {
		return Tour{}, err
	}

	s.logger.Info().Str("name", t.Name).Msg("creating tour")
	created, err := s.store.CreateTour(ctx, t)
	if err != nil {
		return Tour{}, err
	}
	s.notify(ActionCreated, created)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Tour, error) {
	in, err := normalize(in)
	if err != nil {
		return Tour{}, err
	}
	current, err := s.store.GetTour(ctx, id)
	if err != nil {
		return Tour{}, err
	}
	current.Name = in.Name
	current.Description = in.Description
	current.From = in.From
	current.To = in.To
	current.TransportType = in.TransportType
	if err := s.applyRoute(ctx, &current); err != nil {
		return Tour{}, err
	}

	s.logger.Info().Str("tour_id", id).Msg("updating tour")
	if err := s.store.UpdateTour(ctx, current); err != nil {
		return Tour{}, err
	}
	s.notify(ActionUpdated, current)
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info().Str("tour_id", id).Msg("deleting tour")
	if err := s.store.DeleteTour(ctx, id); err != nil {
		return err
	}
	s.notify(ActionDeleted, Tour{ID: strings.Clone(id)})
	return nil
}

func (s *Service) applyRoute(ctx context.Context, t *Tour) error {
	res, err := s.routes.Route(ctx, t.From, t.To, t.TransportType)
	if err != nil {
		return fmt.Errorf("resolve route %s -> %s: %w", t.From, t.To, err)
	}
	t.DistanceKm = res.DistanceKm
	t.EstimatedTimeSec = res.EstimatedTimeSec
	t.Route = res.Path
	t.RouteImage = res.ImageRef
	return nil
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.From = strings.TrimSpace(in.From)
	in.To = strings.TrimSpace(in.To)
	in.TransportType = strings.TrimSpace(in.TransportType)

	switch {
	case in.Name == "":
		return in, fmt.Errorf("%w: name required", ErrValidation)
	case utf8.RuneCountInString(in.Name) > maxNameLen:
		return in, fmt.Errorf("%w: name longer than 200 characters", ErrValidation)
	case in.From == "":
		return in, fmt.Errorf("%w: from required", ErrValidation)
	case in.To == "":
		return in, fmt.Errorf("%w: to required", ErrValidation)
	case in.TransportType == "":
		return in, fmt.Errorf("%w: transport type required", ErrValidation)
	}
	return in, nil
}
