package cache

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUStore is the in-process fallback used when no Redis is configured.
type LRUStore struct {
	gen     atomic.Uint64
	entries *expirable.LRU[string, []byte]
}

func NewLRUStore(size int, ttl time.Duration) *LRUStore {
	if size <= 0 {
		size = 512
	}
	return &LRUStore{entries: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func entryKey(gen uint64, key string) string {
	return strconv.FormatUint(gen, 10) + ":" + key
}

func (s *LRUStore) Generation(context.Context) (uint64, error) {
	return s.gen.Load(), nil
}

func (s *LRUStore) Get(_ context.Context, gen uint64, key string) ([]byte, bool, error) {
	val, ok := s.entries.Get(entryKey(gen, key))
	return val, ok, nil
}

func (s *LRUStore) Set(_ context.Context, gen uint64, key string, val []byte) error {
	if gen != s.gen.Load() {
		return nil
	}
	s.entries.Add(entryKey(gen, key), val)
	return nil
}

func (s *LRUStore) Invalidate(context.Context) error {
	s.gen.Add(1)
	s.entries.Purge()
	return nil
}

func (s *LRUStore) Len() int {
	return s.entries.Len()
}
