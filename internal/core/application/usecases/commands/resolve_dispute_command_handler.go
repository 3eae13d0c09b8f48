package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/domain/services"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

// ResolveDisputeCommandHandler applies a ruling atomically: the dispute is
// closed, the order leaves disputed, the ledger records the money movement
// and the penalty lands on the member. A dispute that is already resolved
// fails with dispute.ErrDisputeAlreadyResolved before anything is written.
type ResolveDisputeCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	recorder   LedgerRecorder
	penalties  services.PenaltyPolicy
}

func NewResolveDisputeCommandHandler(uowFactory UoWFactory, clock ports.Clock, recorder LedgerRecorder) ResolveDisputeCommandHandler {
	return ResolveDisputeCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		recorder:   recorder,
		penalties:  services.NewPenaltyPolicy(),
	}
}

func (h ResolveDisputeCommandHandler) Handle(ctx context.Context, cmd ResolveDisputeCommand) error {
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

	disputeRepo := uow.DisputeRepository()
	orderRepo := uow.OrderRepository()

	d, err := disputeRepo.Get(ctx, cmd.DisputeID())
	if err != nil {
		return err
	}
	if !d.IsActive() {
		return errs.NewPreconditionFailedError(dispute.ErrDisputeAlreadyResolved, d.Status().String())
	}

	o, err := orderRepo.Get(ctx, d.OrderID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	var penalty *dispute.Penalty
	if req := cmd.Penalty(); req != nil {
		if _, err = partyRole(o, req.UserID); err != nil {
			return err
		}
		p, penaltyErr := dispute.NewPenalty(req.UserID, req.Type, req.Reason, now)
		if penaltyErr != nil {
			return penaltyErr
		}
		penalty = &p
	}

	resolution, err := dispute.NewResolution(cmd.Decision(), cmd.RefundAmount(), refundLimits(o), penalty, cmd.Notes())
	if err != nil {
		return err
	}
	if err = d.Resolve(resolution, cmd.Admin(), now); err != nil {
		return err
	}

	outcome, err := h.applyToOrder(o, resolution, cmd.Admin(), now)
	if err != nil {
		return err
	}

	var refund *kernel.Money
	if outcome == services.OutcomePartial {
		r := resolution.RefundAmount()
		refund = &r
	}
	if err = settle(ctx, uow, h.recorder, o, outcome, refund, now); err != nil {
		return err
	}

	if penalty != nil {
		if err = h.applyPenalty(ctx, uow.MemberDirectory(), o, *penalty); err != nil {
			return err
		}
	}

	if err = disputeRepo.Update(ctx, d); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h ResolveDisputeCommandHandler) applyToOrder(
	o *order.Order,
	resolution dispute.Resolution,
	admin kernel.Actor,
	now time.Time,
) (services.Outcome, error) {
	note := "dispute resolved: " + resolution.Decision().String()
	switch resolution.Decision() {
	case dispute.RefundBuyer:
		return services.OutcomeRefund, o.ResolveRefund(admin, now, note)
	case dispute.ReleaseSeller:
		return services.OutcomeRelease, o.ResolveRelease(admin, now, note)
	case dispute.PartialRefund:
		return services.OutcomePartial, o.ResolvePartial(admin, now, note)
	}
	return services.OutcomeUnknown, resolution.Decision().Validate()
}

func (h ResolveDisputeCommandHandler) applyPenalty(
	ctx context.Context,
	members ports.MemberDirectory,
	o *order.Order,
	penalty dispute.Penalty,
) error {
	member, err := members.Get(ctx, penalty.UserID)
	isNew := errors.Is(err, errs.ErrObjectNotFound)
	switch {
	case isNew:
		role, roleErr := partyRole(o, penalty.UserID)
		if roleErr != nil {
			return roleErr
		}
		if member, err = party.NewMember(penalty.UserID, role, party.Offline); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	if _, err = h.penalties.Apply(member, penalty); err != nil {
		return err
	}
	if isNew {
		return members.Add(ctx, member)
	}
	return members.Update(ctx, member)
}

// refundLimits bounds a ruling on o. An unassigned order owes the buyer its
// delivery fee whatever the ruling.
func refundLimits(o *order.Order) dispute.RefundLimits {
	return dispute.RefundLimits{Total: o.Fees().TotalAmount(), Floor: o.UnearnedDeliveryFee()}
}

// partyRole returns the role userID plays in o.
func partyRole(o *order.Order, userID kernel.UUID) (kernel.Role, error) {
	switch {
	case userID.IsEqual(o.BuyerID()):
		return kernel.RoleBuyer, nil
	case userID.IsEqual(o.SellerID()):
		return kernel.RoleSeller, nil
	case o.CourierID() != nil && userID.IsEqual(*o.CourierID()):
		return kernel.RoleCourier, nil
	}
	return kernel.RoleUnknown, errs.NewValueIsInvalidErrorWithCause("userId",
		fmt.Errorf("%s took no part in order %s", userID, o.ID()))
}
