package metrics

import (
	"context"

	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/ddd"
)

// InstrumentedPublisher counts events on their way to the wrapped publisher.
// Only events reach it after commit, so the counters reflect committed state.
type InstrumentedPublisher struct {
	next    ports.EventPublisher
	metrics *Metrics
}

func NewInstrumentedPublisher(next ports.EventPublisher, m *Metrics) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, metrics: m}
}

func (p *InstrumentedPublisher) Publish(ctx context.Context, events ...ddd.DomainEvent) error {
	for _, e := range events {
		switch ev := e.(type) {
		case order.StatusChanged:
			p.metrics.OrderTransitions.WithLabelValues(ev.To).Inc()
		case ledger.Recorded:
			p.metrics.LedgerRecorded.WithLabelValues(ev.Type).Inc()
		}
	}

	err := p.next.Publish(ctx, events...)
	for _, e := range events {
		if err != nil {
			p.metrics.PublishFailures.WithLabelValues(e.EventName()).Inc()
			continue
		}
		p.metrics.EventsPublished.WithLabelValues(e.EventName()).Inc()
	}
	return err
}
