package ddd

// AggregateRoot is implemented by every aggregate whose events the unit of
// work drains after commit.
type AggregateRoot interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregate is embedded by aggregates to record events in raise order.
type BaseAggregate struct {
	events []DomainEvent
}

func (a *BaseAggregate) RaiseDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// DomainEvents returns a copy so callers cannot mutate the pending list.
func (a *BaseAggregate) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(a.events))
	copy(out, a.events)
	return out
}

func (a *BaseAggregate) ClearDomainEvents() {
	a.events = nil
}
