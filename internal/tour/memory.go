package tour

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps tours in process. Writes are serialized, reads run
// concurrently and always receive copies.
type MemoryStore struct {
	mu    sync.RWMutex
	tours map[string]Tour
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tours: make(map[string]Tour), now: time.Now}
}

func (s *MemoryStore) ListTours(ctx context.Context) ([]Tour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Tour, 0, len(s.tours))
	for _, t := range s.tours {
		out = append(out, t.clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Tour) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *MemoryStore) GetTour(ctx context.Context, id string) (Tour, error) {
	if err := ctx.Err(); err != nil {
		return Tour{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tours[id]
	if !ok {
		return Tour{}, ErrNotFound
	}
	return t.clone(), nil
}

func (s *MemoryStore) CreateTour(ctx context.Context, t Tour) (Tour, error) {
	if err := ctx.Err(); err != nil {
		return Tour{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = s.now().UTC()

	s.mu.Lock()
	s.tours[t.ID] = t.clone()
	s.mu.Unlock()
	return t, nil
}

func (s *MemoryStore) UpdateTour(ctx context.Context, t Tour) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.tours[t.ID]
	if !ok {
		return ErrNotFound
	}
	t.CreatedAt = prev.CreatedAt
	s.tours[t.ID] = t.clone()
	return nil
}

func (s *MemoryStore) DeleteTour(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tours[id]; !ok {
		return ErrNotFound
	}
	delete(s.tours, id)
	return nil
}
