package queries

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of a party to it or an admin.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderQuery) Actor() kernel.Actor  { return q.actor }

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse is the order read model. PickupCode is only filled
// for the seller and admins, DeliveryCode only for the buyer and admins.
type GetOrderQueryResponse struct {
	ID                           kernel.UUID
	ListingID                    kernel.UUID
	BuyerID                      kernel.UUID
	SellerID                     kernel.UUID
	CourierID                    *kernel.UUID
	Status                       string
	EscrowStatus                 string
	EscrowAmount                 kernel.Money
	ItemPrice                    kernel.Money
	DeliveryFee                  kernel.Money
	PlatformCommission           kernel.Money
	SellerPayout                 kernel.Money
	TotalAmount                  kernel.Money
	PaymentMethod                string
	PaymentReference             string
	PickupAddress                string
	DeliveryAddress              string
	PickupCode                   string
	DeliveryCode                 string
	DeliveryConfirmationDeadline *time.Time
	AutoConfirmed                bool
	Version                      int64
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}
