package search

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrCancelled        = errors.New("search cancelled")
)

// storeError classifies a collaborator failure. Errors caused by the
// caller's context become ErrCancelled, everything else ErrStoreUnavailable.
// The original error stays reachable through errors.Is.
func storeError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%w: %s: %w", ErrCancelled, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}
