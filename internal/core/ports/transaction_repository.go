package ports

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"
)

// TransactionRepository is append-only.
type TransactionRepository interface {
	// Add fails with errs.ErrIntegrityViolation wrapping
	// ledger.ErrReferenceCollision when the reference is taken.
	Add(ctx context.Context, tx *ledger.Transaction) error

	// FindCompleted returns errs.ErrObjectNotFound when the order has no
	// completed transaction of that type.
	FindCompleted(ctx context.Context, orderID kernel.UUID, txType ledger.TransactionType) (*ledger.Transaction, error)

	ReferenceExists(ctx context.Context, reference string) (bool, error)
}
