package queries

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrGetOrderDisputesQueryIsNotConstructed = errors.New(
	"GetOrderDisputesQuery must be created via NewGetOrderDisputesQuery constructor",
)

// GetOrderDisputesQuery lists every dispute raised on an order, newest first.
type GetOrderDisputesQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderDisputesQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderDisputesQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderDisputesQuery{}, err
	}
	return GetOrderDisputesQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderDisputesQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderDisputesQuery) Actor() kernel.Actor  { return q.actor }

func (q GetOrderDisputesQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDisputesQueryIsNotConstructed)
}

// GetOrderDisputesQueryResponse summarises one dispute.
type GetOrderDisputesQueryResponse struct {
	ID         kernel.UUID
	RaisedBy   kernel.UUID
	Reason     string
	Status     string
	Decision   string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
