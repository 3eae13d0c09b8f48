package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand hands a paid order to a courier. Couriers may assign
// themselves; admins and the system may assign anyone.
//
// Example:
//
//	cmd, err := NewAssignCourierCommand(orderID, courierID, actor)
//	if err != nil {
//	    return fmt.Errorf("invalid command: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, party.ErrCourierUnavailable) {
//	    // busy, offline or banned
//	}
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

func NewAssignCourierCommand(orderID, courierID kernel.UUID, actor kernel.Actor) (AssignCourierCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate(), actor.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}
	return AssignCourierCommand{
		orderID:   orderID,
		courierID: courierID,
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignCourierCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AssignCourierCommand) CourierID() kernel.UUID { return c.courierID }
func (c AssignCourierCommand) Actor() kernel.Actor    { return c.actor }

// Validate ensures the command was created through the constructor.
func (c *AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}
