package commands

import (
	"context"

	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/ports"
)

// AssignCourierCommandHandler checks the courier's availability in the member
// directory, assigns the order and marks the courier busy, all in one
// transaction.
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewAssignCourierCommandHandler(uowFactory UoWFactory, clock ports.Clock) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle returns party.ErrCourierUnavailable (as a precondition failure) for
// a courier that is busy, offline, banned or not a courier at all.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	members := uow.MemberDirectory()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	courier, err := members.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if err = courier.EnsureCanCarry(); err != nil {
		return err
	}

	if err = o.AssignCourier(courier.ID(), cmd.Actor(), h.clock.Now()); err != nil {
		return err
	}
	if err = courier.SetAvailability(party.Busy); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = members.Update(ctx, courier); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
