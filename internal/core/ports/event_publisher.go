package ports

import (
	"context"

	"escrow/internal/pkg/ddd"
)

// EventPublisher delivers committed domain events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, events ...ddd.DomainEvent) error
}
