// Package memberrepo stores the engine's view of users: role, courier
// availability, strikes, bans and rating aggregates, plus individual ratings.
package memberrepo

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/party"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MemberDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Role         string          `gorm:"type:varchar(16);not null"`
	Availability string          `gorm:"type:varchar(16);not null"`
	Strikes      int             `gorm:"not null;default:0"`
	Banned       bool            `gorm:"not null;default:false"`
	Rating       decimal.Decimal `gorm:"type:numeric(3,2);not null"`
	TotalRatings int             `gorm:"not null;default:0"`
	Version      int64           `gorm:"not null"`
}

func (MemberDTO) TableName() string {
	return "members"
}

type RatingDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_ratings_once,priority:1"`
	RaterID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_ratings_once,priority:2"`
	RatedUserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_ratings_once,priority:3"`
	Score       int       `gorm:"type:smallint;not null"`
	Review      string    `gorm:"type:varchar(500)"`
	Type        string    `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
}

func (RatingDTO) TableName() string {
	return "ratings"
}

// memberFromDomain stores version as the value the member will carry once
// the write succeeds.
func memberFromDomain(m *party.Member) MemberDTO {
	return MemberDTO{
		ID:           m.ID().Bytes(),
		Role:         m.Role().String(),
		Availability: m.Availability().String(),
		Strikes:      m.Strikes(),
		Banned:       m.IsBanned(),
		Rating:       m.Rating(),
		TotalRatings: m.TotalRatings(),
		Version:      m.Version() + 1,
	}
}

func memberToDomain(dto MemberDTO) (*party.Member, error) {
	role, roleErr := kernel.ParseRole(dto.Role)
	availability, availabilityErr := party.ParseAvailability(dto.Availability)
	if err := errors.Join(roleErr, availabilityErr); err != nil {
		return nil, err
	}

	return party.RestoreMember(
		kernel.UUIDFromGoogle(dto.ID),
		role,
		availability,
		dto.Strikes,
		dto.Banned,
		dto.Rating,
		dto.TotalRatings,
		dto.Version,
	)
}

func ratingFromDomain(r *party.Rating) RatingDTO {
	return RatingDTO{
		ID:          r.ID().Bytes(),
		OrderID:     r.OrderID().Bytes(),
		RaterID:     r.RaterID().Bytes(),
		RatedUserID: r.RatedUserID().Bytes(),
		Score:       int(r.Score()),
		Review:      r.Review(),
		Type:        r.Type().String(),
		CreatedAt:   r.CreatedAt(),
	}
}
