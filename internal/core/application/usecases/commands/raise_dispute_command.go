package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrRaiseDisputeCommandIsNotConstructed = errors.New(
	"RaiseDisputeCommand must be created via NewRaiseDisputeCommand constructor",
)

// RaiseDisputeCommand contests an order on behalf of its buyer or seller.
type RaiseDisputeCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	actor       kernel.Actor
	reason      string
	description string
	evidence    []string

	guard guard.ConstructorGuard
}

func NewRaiseDisputeCommand(orderID kernel.UUID, actor kernel.Actor, reason, description string, evidence []string) (RaiseDisputeCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return RaiseDisputeCommand{}, err
	}
	return RaiseDisputeCommand{
		orderID:     orderID,
		actor:       actor,
		reason:      reason,
		description: description,
		evidence:    append([]string(nil), evidence...),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RaiseDisputeCommand) OrderID() kernel.UUID { return c.orderID }
func (c RaiseDisputeCommand) Actor() kernel.Actor  { return c.actor }
func (c RaiseDisputeCommand) Reason() string       { return c.reason }
func (c RaiseDisputeCommand) Description() string  { return c.description }
func (c RaiseDisputeCommand) Evidence() []string   { return append([]string(nil), c.evidence...) }

func (c *RaiseDisputeCommand) Validate() error {
	return c.guard.Validate(ErrRaiseDisputeCommandIsNotConstructed)
}
