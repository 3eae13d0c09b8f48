package commands

import (
	"context"
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/domain/model/pricing"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// FeeSettings are the marketplace pricing defaults.
type FeeSettings struct {
	CommissionRate     decimal.Decimal
	DefaultDeliveryFee kernel.Money
}

func DefaultFeeSettings() FeeSettings {
	return FeeSettings{
		CommissionRate:     pricing.DefaultCommissionRate,
		DefaultDeliveryFee: pricing.DefaultDeliveryFee,
	}
}

// PlaceOrderCommandHandler prices the order, issues both checkpoint codes and
// stores it as pending. Only the buyer named on the order, or an admin, may
// place it, and a banned buyer may not.
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	fees       FeeSettings
}

func NewPlaceOrderCommandHandler(uowFactory UoWFactory, clock ports.Clock, fees FeeSettings) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		fees:       fees,
	}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor := cmd.Actor()
	if !actor.Is(kernel.RoleAdmin) && !(actor.Is(kernel.RoleBuyer) && actor.ID().IsEqual(cmd.Parties().BuyerID)) {
		return kernel.NotPermitted(actor, "place this order")
	}

	deliveryFee := h.fees.DefaultDeliveryFee
	if cmd.DeliveryFee() != nil {
		deliveryFee = *cmd.DeliveryFee()
	}
	fees, err := pricing.ComputeFees(cmd.ItemPrice(), deliveryFee, h.fees.CommissionRate)
	if err != nil {
		return err
	}

	pickupCode, err := verification.GenerateCode()
	if err != nil {
		return err
	}
	deliveryCode, err := verification.GenerateCode()
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	buyer, err := uow.MemberDirectory().Get(ctx, cmd.Parties().BuyerID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	case buyer.IsBanned():
		return errs.NewPreconditionFailedError(party.ErrMemberBanned, buyer.ID().String())
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Parties(),
		fees,
		cmd.PickupAddress(),
		cmd.DeliveryAddress(),
		cmd.PaymentMethod(),
		pickupCode,
		deliveryCode,
		actor,
		h.clock.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
