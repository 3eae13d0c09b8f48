package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/services"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

// MaxReferenceAttempts bounds reference regeneration on collision.
const MaxReferenceAttempts = 5

// ReferenceSource produces candidate transaction references.
type ReferenceSource func(prefix string, now time.Time) (string, error)

// LedgerRecorder writes ledger transactions. A logical payout is recorded at
// most once: when a completed transaction of the same type already exists
// for the order, it is returned and nothing is written.
type LedgerRecorder struct {
	prefix     string
	references ReferenceSource
}

func NewLedgerRecorder() LedgerRecorder {
	return LedgerRecorder{
		prefix:     ledger.DefaultReferencePrefix,
		references: ledger.NewReference,
	}
}

// WithReferenceSource returns a copy that draws references from source.
func (r LedgerRecorder) WithReferenceSource(source ReferenceSource) LedgerRecorder {
	r.references = source
	return r
}

// Record completes and stores one entry.
func (r LedgerRecorder) Record(
	ctx context.Context,
	repo ports.TransactionRepository,
	orderID kernel.UUID,
	entry ledger.Entry,
	now time.Time,
) (*ledger.Transaction, error) {
	existing, err := repo.FindCompleted(ctx, orderID, entry.Type)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	reference, err := r.freeReference(ctx, repo, now)
	if err != nil {
		return nil, err
	}

	tx, err := ledger.NewTransaction(orderID, entry, reference, now)
	if err != nil {
		return nil, err
	}
	if err = tx.Complete(now); err != nil {
		return nil, err
	}
	if err = repo.Add(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// RecordAll records entries in order and stops at the first failure. The
// caller's unit of work rolls back anything already written.
func (r LedgerRecorder) RecordAll(
	ctx context.Context,
	repo ports.TransactionRepository,
	orderID kernel.UUID,
	entries []ledger.Entry,
	now time.Time,
) ([]*ledger.Transaction, error) {
	recorded := make([]*ledger.Transaction, 0, len(entries))
	for _, entry := range entries {
		tx, err := r.Record(ctx, repo, orderID, entry, now)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", entry.Type, err)
		}
		recorded = append(recorded, tx)
	}
	return recorded, nil
}

func (r LedgerRecorder) freeReference(ctx context.Context, repo ports.TransactionRepository, now time.Time) (string, error) {
	for range MaxReferenceAttempts {
		reference, err := r.references(r.prefix, now)
		if err != nil {
			return "", err
		}
		taken, err := repo.ReferenceExists(ctx, reference)
		if err != nil {
			return "", err
		}
		if !taken {
			return reference, nil
		}
	}
	return "", errs.NewIntegrityViolationError(ledger.ErrReferenceCollision,
		fmt.Sprintf("no free reference after %d attempts", MaxReferenceAttempts))
}

// settle plans the ledger entries for an outcome and records them.
func settle(
	ctx context.Context,
	uow UoW,
	recorder LedgerRecorder,
	o *order.Order,
	outcome services.Outcome,
	refund *kernel.Money,
	now time.Time,
) error {
	entries, err := services.NewSettlement().Plan(o, outcome, refund)
	if err != nil {
		return err
	}
	_, err = recorder.RecordAll(ctx, uow.TransactionRepository(), o.ID(), entries, now)
	return err
}
