package commands

import (
	"context"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/services"
	"escrow/internal/core/ports"
)

// ConfirmPaymentCommandHandler moves a pending order to paid and records the
// escrow hold. A redelivered confirmation carrying the reference already on
// the order is acknowledged without changes.
type ConfirmPaymentCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	recorder   LedgerRecorder
}

func NewConfirmPaymentCommandHandler(uowFactory UoWFactory, clock ports.Clock, recorder LedgerRecorder) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		recorder:   recorder,
	}
}

func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
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

	if o.Status() != order.Pending && o.PaymentReference() == cmd.Reference() {
		return nil
	}

	now := h.clock.Now()
	if err = o.ConfirmPayment(cmd.Amount(), cmd.Reference(), cmd.Actor(), now); err != nil {
		return err
	}

	if err = settle(ctx, uow, h.recorder, o, services.OutcomeHold, nil, now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
