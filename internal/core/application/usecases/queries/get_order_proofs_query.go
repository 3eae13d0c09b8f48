package queries

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrGetOrderProofsQueryIsNotConstructed = errors.New(
	"GetOrderProofsQuery must be created via NewGetOrderProofsQuery constructor",
)

// GetOrderProofsQuery lists the checkpoint proofs submitted for an order.
type GetOrderProofsQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderProofsQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderProofsQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderProofsQuery{}, err
	}
	return GetOrderProofsQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderProofsQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderProofsQuery) Actor() kernel.Actor  { return q.actor }

func (q GetOrderProofsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderProofsQueryIsNotConstructed)
}

// GetOrderProofsQueryResponse leaves out the presented code.
type GetOrderProofsQueryResponse struct {
	ID          kernel.UUID
	Checkpoint  string
	Photos      []string
	Latitude    float64
	Longitude   float64
	Accuracy    *float64
	SubmittedAt time.Time
	VerifiedBy  kernel.UUID
	Confirmed   bool
}
