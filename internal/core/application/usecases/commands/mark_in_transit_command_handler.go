package commands

import (
	"context"

	"escrow/internal/core/ports"
)

type MarkInTransitCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewMarkInTransitCommandHandler(uowFactory UoWFactory, clock ports.Clock) MarkInTransitCommandHandler {
	return MarkInTransitCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h MarkInTransitCommandHandler) Handle(ctx context.Context, cmd MarkInTransitCommand) error {
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
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.MarkInTransit(cmd.Actor(), h.clock.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
