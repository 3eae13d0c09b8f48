package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrMarkInTransitCommandIsNotConstructed = errors.New(
	"MarkInTransitCommand must be created via NewMarkInTransitCommand constructor",
)

type MarkInTransitCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewMarkInTransitCommand(orderID kernel.UUID, actor kernel.Actor) (MarkInTransitCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return MarkInTransitCommand{}, err
	}
	return MarkInTransitCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkInTransitCommand) OrderID() kernel.UUID { return c.orderID }
func (c MarkInTransitCommand) Actor() kernel.Actor  { return c.actor }

func (c *MarkInTransitCommand) Validate() error {
	return c.guard.Validate(ErrMarkInTransitCommandIsNotConstructed)
}
