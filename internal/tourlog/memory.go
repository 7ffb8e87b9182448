package tourlog

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu     sync.RWMutex
	logs   map[string]TourLog
	byTour map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs:   make(map[string]TourLog),
		byTour: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) ListLogsForTour(ctx context.Context, tourID string) ([]TourLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	ids := s.byTour[tourID]
	out := make([]TourLog, 0, len(ids))
	for id := range ids {
		out = append(out, s.logs[id])
	}
	s.mu.RUnlock()

	slices.SortFunc(out, compareLogs)
	return out, nil
}

func compareLogs(a, b TourLog) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (s *MemoryStore) GetLog(ctx context.Context, id string) (TourLog, error) {
	if err := ctx.Err(); err != nil {
		return TourLog{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[id]
	if !ok {
		return TourLog{}, ErrNotFound
	}
	return l, nil
}

func (s *MemoryStore) CreateLog(ctx context.Context, l TourLog) (TourLog, error) {
	if err := ctx.Err(); err != nil {
		return TourLog{}, err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[l.ID] = l
	ids, ok := s.byTour[l.TourID]
	if !ok {
		ids = make(map[string]struct{})
		s.byTour[l.TourID] = ids
	}
	ids[l.ID] = struct{}{}
	return l, nil
}

func (s *MemoryStore) UpdateLog(ctx context.Context, l TourLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.logs[l.ID]
	if !ok {
		return ErrNotFound
	}
	l.TourID = prev.TourID
	l.Votes = prev.Votes
	s.logs[l.ID] = l
	return nil
}

func (s *MemoryStore) IncrementVotes(ctx context.Context, id string) (TourLog, error) {
	if err := ctx.Err(); err != nil {
		return TourLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		return TourLog{}, ErrNotFound
	}
	l.Votes++
	s.logs[id] = l
	return l, nil
}

func (s *MemoryStore) DeleteLog(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.logs, id)
	if ids := s.byTour[l.TourID]; ids != nil {
		delete(ids, id)
		if len(ids) == 0 {
			delete(s.byTour, l.TourID)
		}
	}
	return nil
}
