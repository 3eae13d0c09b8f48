package commands

import (
	"context"

	"escrow/internal/core/domain/services"
	"escrow/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order that has no courier yet. A paid
// order gets its escrow refunded in the same transaction.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	recorder   LedgerRecorder
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, clock ports.Clock, recorder LedgerRecorder) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, clock: clock, recorder: recorder}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	now := h.clock.Now()
	refunded, err := o.Cancel(cmd.Actor(), now, cmd.Reason())
	if err != nil {
		return err
	}

	if refunded {
		if err = settle(ctx, uow, h.recorder, o, services.OutcomeRefund, nil, now); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
