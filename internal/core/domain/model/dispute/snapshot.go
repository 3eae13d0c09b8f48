package dispute

import (
	"time"

	"escrow/internal/core/domain/model/kernel"
)

// Snapshot is the persisted shape of a dispute.
type Snapshot struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	RaisedBy     kernel.UUID
	RaisedByRole kernel.Role
	Reason       string
	Description  string
	Evidence     []string
	Status       Status
	AdminNotes   string
	Resolution   *Resolution
	CreatedAt    time.Time
	ResolvedAt   *time.Time
	ResolvedBy   *kernel.UUID
}

func Restore(s Snapshot) *Dispute {
	d := &Dispute{
		id:            s.ID,
		orderID:       s.OrderID,
		raisedBy:      s.RaisedBy,
		raisedByRole:  s.RaisedByRole,
		reason:        s.Reason,
		description:   s.Description,
		evidence:      append([]string(nil), s.Evidence...),
		status:        s.Status,
		adminNotes:    s.AdminNotes,
		createdAt:     s.CreatedAt,
		isConstructed: true,
	}
	if s.Resolution != nil {
		r := *s.Resolution
		d.resolution = &r
	}
	if s.ResolvedAt != nil {
		t := *s.ResolvedAt
		d.resolvedAt = &t
	}
	if s.ResolvedBy != nil {
		id := *s.ResolvedBy
		d.resolvedBy = &id
	}
	d.MarkPersisted()
	return d
}

func (d *Dispute) Snapshot() Snapshot {
	return Snapshot{
		ID:           d.id,
		OrderID:      d.orderID,
		RaisedBy:     d.raisedBy,
		RaisedByRole: d.raisedByRole,
		Reason:       d.reason,
		Description:  d.description,
		Evidence:     d.Evidence(),
		Status:       d.status,
		AdminNotes:   d.adminNotes,
		Resolution:   d.Resolution(),
		CreatedAt:    d.createdAt,
		ResolvedAt:   d.ResolvedAt(),
		ResolvedBy:   d.ResolvedBy(),
	}
}
