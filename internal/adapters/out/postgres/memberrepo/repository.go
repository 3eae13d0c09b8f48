package memberrepo

import (
	"context"
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormMemberDirectory implements ports.MemberDirectory. Writes are
// conditional on the member's version.
type GormMemberDirectory struct {
	db *gorm.DB
}

func NewGormMemberDirectory(db *gorm.DB) *GormMemberDirectory {
	return &GormMemberDirectory{db: db}
}

func (r *GormMemberDirectory) Add(ctx context.Context, member *party.Member) error {
	if err := member.Validate(); err != nil {
		return err
	}

	dto := memberFromDomain(member)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConcurrentModificationError("member", member.ID().String())
		}
		return err
	}

	member.MarkPersisted()
	return nil
}

func (r *GormMemberDirectory) Update(ctx context.Context, member *party.Member) error {
	if err := member.Validate(); err != nil {
		return err
	}

	dto := memberFromDomain(member)
	result := r.db.WithContext(ctx).
		Model(&MemberDTO{}).
		Where("id = ? AND version = ?", dto.ID, member.Version()).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrentModificationError("member", member.ID().String())
	}

	member.MarkPersisted()
	return nil
}

func (r *GormMemberDirectory) Get(ctx context.Context, id kernel.UUID) (*party.Member, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MemberDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("member", id.String())
		}
		return nil, err
	}

	return memberToDomain(dto)
}

type GormRatingRepository struct {
	db *gorm.DB
}

func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

func (r *GormRatingRepository) Add(ctx context.Context, rating *party.Rating) error {
	if err := rating.Validate(); err != nil {
		return err
	}

	dto := ratingFromDomain(rating)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewPreconditionFailedError(party.ErrAlreadyRated, rating.RatedUserID().String())
		}
		return err
	}
	return nil
}

func (r *GormRatingRepository) Exists(ctx context.Context, orderID, raterID, ratedUserID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RatingDTO{}).
		Where("order_id = ? AND rater_id = ? AND rated_user_id = ?", orderID.Bytes(), raterID.Bytes(), ratedUserID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
