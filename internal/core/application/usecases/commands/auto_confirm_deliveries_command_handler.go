package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

// AutoConfirmResult summarises one timer run.
type AutoConfirmResult struct {
	Due       int
	Completed int
	// Skipped orders changed under the timer (a buyer confirmed or a dispute
	// was raised first) and were left alone.
	Skipped int
	// Failed orders hit any other error. They are logged and retried on the
	// next run; the rest of the batch still proceeds.
	Failed int
}

// AutoConfirmDeliveriesCommandHandler finds delivered orders past their
// deadline and completes each in its own transaction through the same
// release path the buyer's confirmation uses.
type AutoConfirmDeliveriesCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	recorder   LedgerRecorder
	logger     *slog.Logger
}

func NewAutoConfirmDeliveriesCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	recorder LedgerRecorder,
	logger *slog.Logger,
) AutoConfirmDeliveriesCommandHandler {
	return AutoConfirmDeliveriesCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		recorder:   recorder,
		logger:     logger.With("component", "auto-confirm"),
	}
}

// Handle completes every due order it can. A failing order is counted in
// Failed and does not hold back later ones; only a failed lookup or a
// cancelled context ends the run with an error.
func (h AutoConfirmDeliveriesCommandHandler) Handle(ctx context.Context, cmd AutoConfirmDeliveriesCommand) (AutoConfirmResult, error) {
	var result AutoConfirmResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	now := h.clock.Now()
	due, err := h.findDue(ctx, now, cmd.BatchSize())
	if err != nil {
		return result, err
	}
	result.Due = len(due)

	for _, id := range due {
		if err = ctx.Err(); err != nil {
			return result, err
		}
		err = h.confirmOne(ctx, id, now)
		switch {
		case err == nil:
			result.Completed++
		case isLostRace(err):
			result.Skipped++
		default:
			result.Failed++
			h.logger.ErrorContext(ctx, "Auto-confirmation failed", "orderId", id.String(), "error", err)
		}
	}
	return result, nil
}

func (h AutoConfirmDeliveriesCommandHandler) findDue(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetDueForAutoConfirmation(ctx, now, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

func (h AutoConfirmDeliveriesCommandHandler) confirmOne(ctx context.Context, id kernel.UUID, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, id)
	if err != nil {
		return err
	}

	if err = o.AutoConfirm(now); err != nil {
		return err
	}

	if err = release(ctx, uow, h.recorder, o, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// isLostRace reports errors caused by another operation reaching the order
// first: a concurrent write, or a state that no longer qualifies.
func isLostRace(err error) bool {
	return errors.Is(err, errs.ErrConcurrentModification) ||
		errors.Is(err, order.ErrInvalidTransition) ||
		errors.Is(err, order.ErrConfirmationWindowOpen)
}
