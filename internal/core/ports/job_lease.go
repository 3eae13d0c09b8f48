package ports

import (
	"context"
	"time"
)

// JobLease keeps a background job single-flight across instances. Holding the
// lease is an optimisation; correctness never depends on it.
type JobLease interface {
	// TryAcquire returns false without error when another holder owns name.
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}
