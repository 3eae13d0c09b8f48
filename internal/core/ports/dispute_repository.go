package ports

import (
	"context"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
)

type DisputeRepository interface {
	// Add fails with errs.ErrPreconditionFailed when the order already has an
	// open or under-review dispute.
	Add(ctx context.Context, aggregate *dispute.Dispute) error

	// Update is conditional on the status the dispute was loaded with.
	Update(ctx context.Context, aggregate *dispute.Dispute) error

	Get(ctx context.Context, id kernel.UUID) (*dispute.Dispute, error)

	// HasActive reports whether the order has an open or under-review dispute.
	HasActive(ctx context.Context, orderID kernel.UUID) (bool, error)
}
