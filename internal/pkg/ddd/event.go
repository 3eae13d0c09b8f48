// Package ddd holds the building blocks shared by aggregates: domain events and
// the base aggregate that collects them until the unit of work commits.
package ddd

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate. Events are published only
// after the transaction that produced them has committed.
type DomainEvent interface {
	EventID() uuid.UUID
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields every event shares. Concrete events
// embed it and add their payload.
type BaseEvent struct {
	ID          uuid.UUID `json:"event_id"`
	Name        string    `json:"event_name"`
	Aggregate   string    `json:"aggregate_id"`
	OccurredAtT time.Time `json:"occurred_at"`
}

func NewBaseEvent(name string, aggregateID string, at time.Time) BaseEvent {
	return BaseEvent{
		ID:          uuid.New(),
		Name:        name,
		Aggregate:   aggregateID,
		OccurredAtT: at.UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) EventName() string     { return e.Name }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) OccurredAt() time.Time { return e.OccurredAtT }
