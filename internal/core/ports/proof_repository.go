package ports

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/verification"
)

type ProofRepository interface {
	// Add fails with errs.ErrPreconditionFailed wrapping
	// verification.ErrAlreadyVerified when the checkpoint already has a proof.
	Add(ctx context.Context, proof *verification.Proof) error

	// Find returns errs.ErrObjectNotFound when the checkpoint has no proof yet.
	Find(ctx context.Context, orderID kernel.UUID, checkpoint verification.Checkpoint) (*verification.Proof, error)
}
