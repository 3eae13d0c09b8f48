package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

// SubmitProofCommandHandler verifies a checkpoint. A confirmed delivery
// opens the buyer's confirmation window and frees the courier for new work.
type SubmitProofCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	window     time.Duration
	logger     *slog.Logger
}

func NewSubmitProofCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	window time.Duration,
	logger *slog.Logger,
) SubmitProofCommandHandler {
	if window <= 0 {
		window = order.DefaultConfirmationWindow
	}
	return SubmitProofCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		window:     window,
		logger:     logger.With("component", "submit-proof"),
	}
}

func (h SubmitProofCommandHandler) Handle(ctx context.Context, cmd SubmitProofCommand) error {
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
	proofRepo := uow.ProofRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	existing, err := proofRepo.Find(ctx, o.ID(), cmd.Checkpoint())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	case existing.IsConfirmed():
		return errs.NewPreconditionFailedError(verification.ErrAlreadyVerified, cmd.Checkpoint().String())
	}

	now := h.clock.Now()
	proof, err := verification.NewProof(
		o.ID(),
		cmd.Checkpoint(),
		cmd.Photos(),
		cmd.Latitude(),
		cmd.Longitude(),
		cmd.Accuracy(),
		cmd.PresentedCode(),
		cmd.Actor().ID(),
		now,
	)
	if err != nil {
		return err
	}

	if err = o.VerifyCheckpoint(proof, cmd.Actor(), now, h.window); err != nil {
		return err
	}

	if err = proofRepo.Add(ctx, proof); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if cmd.Checkpoint() == verification.Delivery {
		if err = h.releaseCourier(ctx, uow, o); err != nil {
			return err
		}
		h.logRoute(ctx, proofRepo, proof)
	}

	return uow.Commit(ctx)
}

func (h SubmitProofCommandHandler) releaseCourier(ctx context.Context, uow UoW, o *order.Order) error {
	courierID := o.CourierID()
	if courierID == nil {
		return nil
	}
	members := uow.MemberDirectory()
	courier, err := members.Get(ctx, *courierID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if courier.IsBanned() || courier.Availability() != party.Busy {
		return nil
	}
	if err = courier.SetAvailability(party.Available); err != nil {
		return err
	}
	return members.Update(ctx, courier)
}

// logRoute records the straight-line distance between the two handoffs.
func (h SubmitProofCommandHandler) logRoute(ctx context.Context, proofs ports.ProofRepository, delivery *verification.Proof) {
	pickup, err := proofs.Find(ctx, delivery.OrderID(), verification.Pickup)
	if err != nil {
		h.logger.WarnContext(ctx, "pickup proof unavailable for route distance",
			"order_id", delivery.OrderID().String(), "error", err)
		return
	}
	h.logger.InfoContext(ctx, "delivery verified",
		"order_id", delivery.OrderID().String(),
		"distance_km", pickup.Location().DistanceKm(delivery.Location()))
}
