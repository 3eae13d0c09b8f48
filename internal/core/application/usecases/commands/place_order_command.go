package commands

import (
	"errors"
	"strings"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand opens a pending order for a listing. The delivery fee is
// optional; the handler falls back to its configured default.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), parties, kernel.MustMoney("100"), nil,
//	    order.MTNMobileMoney, "Makola Market", "East Legon", buyer)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	parties         order.Parties
	itemPrice       kernel.Money
	deliveryFee     *kernel.Money
	paymentMethod   order.PaymentMethod
	pickupAddress   string
	deliveryAddress string
	actor           kernel.Actor

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(
	orderID kernel.UUID,
	parties order.Parties,
	itemPrice kernel.Money,
	deliveryFee *kernel.Money,
	paymentMethod order.PaymentMethod,
	pickupAddress, deliveryAddress string,
	actor kernel.Actor,
) (PlaceOrderCommand, error) {
	var addressErr error
	if strings.TrimSpace(pickupAddress) == "" || strings.TrimSpace(deliveryAddress) == "" {
		addressErr = errs.NewValueIsRequiredError("address")
	}
	if err := errors.Join(
		orderID.Validate(),
		parties.ListingID.Validate(),
		parties.BuyerID.Validate(),
		parties.SellerID.Validate(),
		paymentMethod.Validate(),
		actor.Validate(),
		addressErr,
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	var fee *kernel.Money
	if deliveryFee != nil {
		f := *deliveryFee
		fee = &f
	}
	return PlaceOrderCommand{
		orderID:         orderID,
		parties:         parties,
		itemPrice:       itemPrice,
		deliveryFee:     fee,
		paymentMethod:   paymentMethod,
		pickupAddress:   pickupAddress,
		deliveryAddress: deliveryAddress,
		actor:           actor,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c PlaceOrderCommand) OrderID() kernel.UUID               { return c.orderID }
func (c PlaceOrderCommand) Parties() order.Parties             { return c.parties }
func (c PlaceOrderCommand) ItemPrice() kernel.Money            { return c.itemPrice }
func (c PlaceOrderCommand) DeliveryFee() *kernel.Money         { return c.deliveryFee }
func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod { return c.paymentMethod }
func (c PlaceOrderCommand) PickupAddress() string              { return c.pickupAddress }
func (c PlaceOrderCommand) DeliveryAddress() string            { return c.deliveryAddress }
func (c PlaceOrderCommand) Actor() kernel.Actor                { return c.actor }

func (c *PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}
