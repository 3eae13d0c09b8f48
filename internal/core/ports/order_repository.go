// Package ports defines the contracts between the escrow core and its
// infrastructure: repositories, the unit of work, the clock, the event
// publisher and the job lease.
package ports

import (
	"context"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its first history entry.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a transitioned order. The write only succeeds while the
	// stored status and version still equal the ones the order was loaded
	// with; otherwise it fails with errs.ErrConcurrentModification and
	// nothing is written. New history entries are appended in the same call.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ErrObjectNotFound when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetDueForAutoConfirmation returns up to limit delivered orders whose
	// confirmation deadline is before now, oldest deadline first.
	GetDueForAutoConfirmation(ctx context.Context, now time.Time, limit int) ([]*order.Order, error)
}
