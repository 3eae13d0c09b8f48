package commands

import (
	"context"
	"time"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/services"
	"escrow/internal/core/ports"
)

// ConfirmDeliveryCommandHandler completes a delivered order on the buyer's
// word and releases escrow.
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	recorder   LedgerRecorder
}

func NewConfirmDeliveryCommandHandler(uowFactory UoWFactory, clock ports.Clock, recorder LedgerRecorder) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{uowFactory: uowFactory, clock: clock, recorder: recorder}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	if err = o.ConfirmReceipt(cmd.Actor(), now); err != nil {
		return err
	}

	if err = release(ctx, uow, h.recorder, o, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// release pays out a completed order and persists it. Buyer confirmation,
// the auto-confirmation timer and a release-seller ruling all end here.
func release(ctx context.Context, uow UoW, recorder LedgerRecorder, o *order.Order, now time.Time) error {
	if err := settle(ctx, uow, recorder, o, services.OutcomeRelease, nil, now); err != nil {
		return err
	}
	return uow.OrderRepository().Update(ctx, o)
}
