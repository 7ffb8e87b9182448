package search

import (
	"errors"
	"time"

	"tourplanner/internal/cache"
)

func isCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

func newTestCache() *cache.LRUStore {
	return cache.NewLRUStore(64, time.Minute)
}
