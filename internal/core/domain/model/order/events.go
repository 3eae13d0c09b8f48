package order

import (
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/ddd"
)

const StatusChangedEventName = "order.status-changed"

// StatusChanged is raised on every transition, including creation.
type StatusChanged struct {
	ddd.BaseEvent
	OrderID       string `json:"order_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	ActorID       string `json:"actor_id"`
	ActorRole     string `json:"actor_role"`
	Note          string `json:"note,omitempty"`
	AutoConfirmed bool   `json:"auto_confirmed"`
	Version       int64  `json:"version"`
}

func newStatusChanged(o *Order, from Status, entry HistoryEntry) StatusChanged {
	return StatusChanged{
		BaseEvent:     ddd.NewBaseEvent(StatusChangedEventName, o.id.String(), entry.At),
		OrderID:       o.id.String(),
		From:          from.String(),
		To:            entry.Status.String(),
		ActorID:       entry.ActorID.String(),
		ActorRole:     entry.ActorRole.String(),
		Note:          entry.Note,
		AutoConfirmed: o.autoConfirmed,
		Version:       o.version,
	}
}

// HistoryEntry is one append-only record of a status change.
type HistoryEntry struct {
	Status    Status
	At        time.Time
	ActorID   kernel.UUID
	ActorRole kernel.Role
	Note      string
}
