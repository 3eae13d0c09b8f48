package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand is the buyer accepting a delivered order.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(orderID kernel.UUID, actor kernel.Actor) (ConfirmDeliveryCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	return ConfirmDeliveryCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmDeliveryCommand) OrderID() kernel.UUID { return c.orderID }
func (c ConfirmDeliveryCommand) Actor() kernel.Actor  { return c.actor }

func (c *ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}
