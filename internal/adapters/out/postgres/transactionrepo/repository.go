package transactionrepo

import (
	"context"
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/pkg/ddd"
	"escrow/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormTransactionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate ddd.AggregateRoot)
}

func NewGormTransactionRepository(db *gorm.DB, tracker aggregateTracker) *GormTransactionRepository {
	return &GormTransactionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts tx. The insert runs under a savepoint so that, after a unique
// violation, the enclosing transaction can still tell a taken reference from
// a concurrent writer that completed the same entry first.
func (r *GormTransactionRepository) Add(ctx context.Context, tx *ledger.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := fromDomain(tx)
	err := r.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(&dto).Error
	})
	if err == nil {
		r.tracker.TrackAggregate(tx.ID(), tx)
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	taken, lookupErr := r.ReferenceExists(ctx, tx.Reference())
	if lookupErr != nil {
		return errors.Join(err, lookupErr)
	}
	if taken {
		return errs.NewIntegrityViolationError(ledger.ErrReferenceCollision, tx.Reference())
	}
	return errs.NewConcurrentModificationError("transaction", tx.OrderID().String()+"/"+tx.Type().String())
}

func (r *GormTransactionRepository) FindCompleted(
	ctx context.Context,
	orderID kernel.UUID,
	txType ledger.TransactionType,
) (*ledger.Transaction, error) {
	var dto TransactionDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND type = ? AND status = ?", orderID.Bytes(), txType.String(), ledger.Completed.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transaction", orderID.String()+"/"+txType.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormTransactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&TransactionDTO{}).
		Where("reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
