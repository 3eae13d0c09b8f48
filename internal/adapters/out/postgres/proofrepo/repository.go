package proofrepo

import (
	"context"
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormProofRepository struct {
	db *gorm.DB
}

func NewGormProofRepository(db *gorm.DB) *GormProofRepository {
	return &GormProofRepository{db: db}
}

func (r *GormProofRepository) Add(ctx context.Context, proof *verification.Proof) error {
	if err := proof.Validate(); err != nil {
		return err
	}

	dto := fromDomain(proof)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewPreconditionFailedError(verification.ErrAlreadyVerified, proof.Checkpoint().String())
		}
		return err
	}
	return nil
}

func (r *GormProofRepository) Find(
	ctx context.Context,
	orderID kernel.UUID,
	checkpoint verification.Checkpoint,
) (*verification.Proof, error) {
	var dto ProofDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND checkpoint = ?", orderID.Bytes(), checkpoint.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("proof", orderID.String()+"/"+checkpoint.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
