// Package cache stores serialized search results. Entries belong to a
// generation; Invalidate starts a new generation so every earlier entry
// becomes unreachable at once.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type Store interface {
	// Generation returns the current generation. Callers read it before
	// computing a value and pass it to Get and Set, so a value computed
	// across an invalidation is written into the retired generation.
	Generation(ctx context.Context) (uint64, error)
	Get(ctx context.Context, gen uint64, key string) ([]byte, bool, error)
	Set(ctx context.Context, gen uint64, key string, val []byte) error
	Invalidate(ctx context.Context) error
}

// Key hashes the normalized parts of a request into a short stable key.
func Key(namespace string, parts ...string) string {
	sum := xxhash.Sum64String(strings.Join(parts, "\x1f"))
	return fmt.Sprintf("%s:%016x", namespace, sum)
}
