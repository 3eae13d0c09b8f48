package queries

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrGetStatusHistoryQueryIsNotConstructed = errors.New(
	"GetStatusHistoryQuery must be created via NewGetStatusHistoryQuery constructor",
)

// GetStatusHistoryQuery lists an order's status history, oldest first.
type GetStatusHistoryQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetStatusHistoryQuery(orderID kernel.UUID, actor kernel.Actor) (GetStatusHistoryQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetStatusHistoryQuery{}, err
	}
	return GetStatusHistoryQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStatusHistoryQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetStatusHistoryQuery) Actor() kernel.Actor  { return q.actor }

func (q GetStatusHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusHistoryQueryIsNotConstructed)
}

// GetStatusHistoryQueryResponse is one history entry.
type GetStatusHistoryQueryResponse struct {
	Seq       int64
	Status    string
	At        time.Time
	ActorID   kernel.UUID
	ActorRole string
	Note      string
}
