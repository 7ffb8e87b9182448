package tourlog

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	listeners []Listener
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Service) notify(action Action, l TourLog) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(action, l)
	}
}

// ListLogsForTour satisfies the search engine's log source.
func (s *Service) ListLogsForTour(ctx context.Context, tourID string) ([]TourLog, error) {
	return s.store.ListLogsForTour(ctx, tourID)
}

func (s *Service) Get(ctx context.Context, id string) (TourLog, error) {
	return s.store.GetLog(ctx, id)
}

func (s *Service) Create(ctx context.Context, tourID string, in Input) (TourLog, error) {
	// tourID may alias a request buffer that is reused after the handler returns.
	tourID = strings.Clone(strings.TrimSpace(tourID))
	if tourID == "" {
		return TourLog{}, fmt.Errorf("%w: tour id required", ErrValidation)
	}
	if err := validate(in); err != nil {
		return TourLog{}, err
	}
	l := TourLog{
		TourID:          tourID,
		Date:            s.normalizeDate(in.Date),
		Comment:         strings.TrimSpace(in.Comment),
		Difficulty:      in.Difficulty,
		TotalDistanceKm: in.TotalDistanceKm,
		TotalTimeSec:    in.TotalTimeSec,
		Rating:          in.Rating,
	}

	s.logger.Info().Str("tour_id", tourID).Msg("creating tour log")
	created, err := s.store.CreateLog(ctx, l)
	if err != nil {
		return TourLog{}, err
	}
	s.notify(ActionCreated, created)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (TourLog, error) {
	if err := validate(in); err != nil {
		return TourLog{}, err
	}
	current, err := s.store.GetLog(ctx, id)
	if err != nil {
		return TourLog{}, err
	}
	current.Date = s.normalizeDate(in.Date)
	current.Comment = strings.TrimSpace(in.Comment)
	current.Difficulty = in.Difficulty
	current.TotalDistanceKm = in.TotalDistanceKm
	current.TotalTimeSec = in.TotalTimeSec
	current.Rating = in.Rating

	s.logger.Info().Str("log_id", id).Msg("updating tour log")
	if err := s.store.UpdateLog(ctx, current); err != nil {
		return TourLog{}, err
	}
	s.notify(ActionUpdated, current)
	return current, nil
}

func (s *Service) Upvote(ctx context.Context, id string) (TourLog, error) {
	s.logger.Info().Str("log_id", id).Msg("upvoting tour log")
	l, err := s.store.IncrementVotes(ctx, id)
	if err != nil {
		return TourLog{}, err
	}
	s.notify(ActionUpvoted, l)
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.store.GetLog(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info().Str("log_id", id).Msg("deleting tour log")
	if err := s.store.DeleteLog(ctx, id); err != nil {
		return err
	}
	s.notify(ActionDeleted, current)
	return nil
}

func (s *Service) normalizeDate(d time.Time) time.Time {
	if d.IsZero() {
		return s.now().UTC()
	}
	return d.UTC()
}

func validate(in Input) error {
	switch {
	case in.Rating < 1 || in.Rating > 5:
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	case in.Difficulty < 1 || in.Difficulty > 5:
		return fmt.Errorf("%w: difficulty must be between 1 and 5", ErrValidation)
	case in.TotalDistanceKm < 0 || math.IsNaN(in.TotalDistanceKm) || math.IsInf(in.TotalDistanceKm, 0):
		return fmt.Errorf("%w: distance must be non-negative", ErrValidation)
	case in.TotalTimeSec < 0:
		return fmt.Errorf("%w: time must be non-negative", ErrValidation)
	}
	return nil
}
