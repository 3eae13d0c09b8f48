// Package disputerepo persists disputes. At most one active dispute per order
// is enforced by a partial unique index.
package disputerepo

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DisputeDTO struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:ux_disputes_active_order,where:status NOT LIKE 'resolved-%'"`
	RaisedBy         uuid.UUID        `gorm:"type:uuid;not null"`
	RaisedByRole     string           `gorm:"type:varchar(16);not null"`
	Reason           string           `gorm:"type:varchar(255);not null"`
	Description      string           `gorm:"type:varchar(1000);not null"`
	Evidence         []string         `gorm:"type:jsonb;serializer:json"`
	Status           string           `gorm:"type:varchar(32);not null"`
	AdminNotes       string           `gorm:"type:text"`
	Decision         *string          `gorm:"type:varchar(32)"`
	RefundAmount     *decimal.Decimal `gorm:"type:numeric(14,2)"`
	ResolutionNotes  string           `gorm:"type:text"`
	PenaltyUserID    *uuid.UUID       `gorm:"type:uuid"`
	PenaltyType      *string          `gorm:"type:varchar(16)"`
	PenaltyReason    string           `gorm:"type:text"`
	PenaltyAppliedAt *time.Time
	CreatedAt        time.Time `gorm:"not null;autoCreateTime:false"`
	ResolvedAt       *time.Time
	ResolvedBy       *uuid.UUID `gorm:"type:uuid"`
}

func (DisputeDTO) TableName() string {
	return "disputes"
}

func fromDomain(d *dispute.Dispute) DisputeDTO {
	s := d.Snapshot()
	dto := DisputeDTO{
		ID:           s.ID.Bytes(),
		OrderID:      s.OrderID.Bytes(),
		RaisedBy:     s.RaisedBy.Bytes(),
		RaisedByRole: s.RaisedByRole.String(),
		Reason:       s.Reason,
		Description:  s.Description,
		Evidence:     s.Evidence,
		Status:       s.Status.String(),
		AdminNotes:   s.AdminNotes,
		CreatedAt:    s.CreatedAt,
		ResolvedAt:   s.ResolvedAt,
	}
	if s.ResolvedBy != nil {
		id := s.ResolvedBy.Bytes()
		dto.ResolvedBy = &id
	}

	if r := s.Resolution; r != nil {
		decision := r.Decision().String()
		refund := r.RefundAmount().Amount()
		dto.Decision = &decision
		dto.RefundAmount = &refund
		dto.ResolutionNotes = r.Notes()

		if p := r.Penalty(); p != nil {
			userID := p.UserID.Bytes()
			penaltyType := p.Type.String()
			appliedAt := p.AppliedAt
			dto.PenaltyUserID = &userID
			dto.PenaltyType = &penaltyType
			dto.PenaltyReason = p.Reason
			dto.PenaltyAppliedAt = &appliedAt
		}
	}
	return dto
}

func toDomain(dto DisputeDTO) (*dispute.Dispute, error) {
	status, statusErr := dispute.ParseStatus(dto.Status)
	role, roleErr := kernel.ParseRole(dto.RaisedByRole)
	if err := errors.Join(statusErr, roleErr); err != nil {
		return nil, err
	}

	resolution, err := resolutionToDomain(dto)
	if err != nil {
		return nil, err
	}

	var resolvedBy *kernel.UUID
	if dto.ResolvedBy != nil {
		id := kernel.UUIDFromGoogle(*dto.ResolvedBy)
		resolvedBy = &id
	}

	return dispute.Restore(dispute.Snapshot{
		ID:           kernel.UUIDFromGoogle(dto.ID),
		OrderID:      kernel.UUIDFromGoogle(dto.OrderID),
		RaisedBy:     kernel.UUIDFromGoogle(dto.RaisedBy),
		RaisedByRole: role,
		Reason:       dto.Reason,
		Description:  dto.Description,
		Evidence:     dto.Evidence,
		Status:       status,
		AdminNotes:   dto.AdminNotes,
		Resolution:   resolution,
		CreatedAt:    dto.CreatedAt,
		ResolvedAt:   dto.ResolvedAt,
		ResolvedBy:   resolvedBy,
	}), nil
}

func resolutionToDomain(dto DisputeDTO) (*dispute.Resolution, error) {
	if dto.Decision == nil {
		return nil, nil
	}
	decision, err := dispute.ParseDecision(*dto.Decision)
	if err != nil {
		return nil, err
	}
	refund := kernel.ZeroMoney()
	if dto.RefundAmount != nil {
		if refund, err = kernel.NewMoney(*dto.RefundAmount); err != nil {
			return nil, err
		}
	}

	var penalty *dispute.Penalty
	if dto.PenaltyType != nil && dto.PenaltyUserID != nil {
		penaltyType, err := dispute.ParsePenaltyType(*dto.PenaltyType)
		if err != nil {
			return nil, err
		}
		p := dispute.Penalty{
			UserID: kernel.UUIDFromGoogle(*dto.PenaltyUserID),
			Type:   penaltyType,
			Reason: dto.PenaltyReason,
		}
		if dto.PenaltyAppliedAt != nil {
			p.AppliedAt = *dto.PenaltyAppliedAt
		}
		penalty = &p
	}

	r := dispute.RestoreResolution(decision, refund, penalty, dto.ResolutionNotes)
	return &r, nil
}
