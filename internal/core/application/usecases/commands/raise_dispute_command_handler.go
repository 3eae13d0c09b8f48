package commands

import (
	"context"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

// RaiseDisputeCommandHandler freezes the order and opens a dispute. An order
// carries at most one open or under-review dispute at a time.
type RaiseDisputeCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewRaiseDisputeCommandHandler(uowFactory UoWFactory, clock ports.Clock) RaiseDisputeCommandHandler {
	return RaiseDisputeCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle returns the id of the new dispute.
func (h RaiseDisputeCommandHandler) Handle(ctx context.Context, cmd RaiseDisputeCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	disputeRepo := uow.DisputeRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}

	active, err := disputeRepo.HasActive(ctx, o.ID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if active {
		return kernel.UUID{}, errs.NewPreconditionFailedError(order.ErrOrderNotDisputable, "a dispute is already open")
	}

	now := h.clock.Now()
	d, err := dispute.NewDispute(o.ID(), cmd.Actor(), cmd.Reason(), cmd.Description(), cmd.Evidence(), now)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = o.RaiseDispute(cmd.Actor(), now, "dispute raised: "+d.Reason()); err != nil {
		return kernel.UUID{}, err
	}

	if err = disputeRepo.Add(ctx, d); err != nil {
		return kernel.UUID{}, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	return d.ID(), nil
}
