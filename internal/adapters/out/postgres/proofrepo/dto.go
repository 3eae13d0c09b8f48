// Package proofrepo stores checkpoint verification proofs, one per order and
// checkpoint.
package proofrepo

import (
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/verification"

	"github.com/google/uuid"
)

type ProofDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_proofs_order_checkpoint,priority:1"`
	Checkpoint    string    `gorm:"type:varchar(16);not null;uniqueIndex:ux_proofs_order_checkpoint,priority:2"`
	Photos        []string  `gorm:"type:jsonb;serializer:json;not null"`
	Latitude      float64   `gorm:"not null"`
	Longitude     float64   `gorm:"not null"`
	Accuracy      *float64
	SubmittedAt   time.Time `gorm:"not null"`
	VerifiedBy    uuid.UUID `gorm:"type:uuid;not null"`
	PresentedCode string    `gorm:"type:varchar(16);not null"`
	Confirmed     bool      `gorm:"not null"`
}

func (ProofDTO) TableName() string {
	return "verification_proofs"
}

func fromDomain(p *verification.Proof) ProofDTO {
	return ProofDTO{
		ID:            p.ID().Bytes(),
		OrderID:       p.OrderID().Bytes(),
		Checkpoint:    p.Checkpoint().String(),
		Photos:        p.Photos(),
		Latitude:      p.Location().Latitude(),
		Longitude:     p.Location().Longitude(),
		Accuracy:      p.Location().Accuracy(),
		SubmittedAt:   p.SubmittedAt(),
		VerifiedBy:    p.VerifiedBy().Bytes(),
		PresentedCode: p.PresentedCode(),
		Confirmed:     p.IsConfirmed(),
	}
}

func toDomain(dto ProofDTO) (*verification.Proof, error) {
	checkpoint, err := verification.ParseCheckpoint(dto.Checkpoint)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewCoordinates(dto.Latitude, dto.Longitude, dto.Accuracy)
	if err != nil {
		return nil, err
	}

	return verification.RestoreProof(
		kernel.UUIDFromGoogle(dto.ID),
		kernel.UUIDFromGoogle(dto.OrderID),
		checkpoint,
		dto.Photos,
		location,
		dto.SubmittedAt,
		kernel.UUIDFromGoogle(dto.VerifiedBy),
		dto.PresentedCode,
		dto.Confirmed,
	), nil
}
