package queries

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrGetOrderTransactionsQueryIsNotConstructed = errors.New(
	"GetOrderTransactionsQuery must be created via NewGetOrderTransactionsQuery constructor",
)

// GetOrderTransactionsQuery lists an order's ledger, oldest first.
type GetOrderTransactionsQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderTransactionsQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderTransactionsQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderTransactionsQuery{}, err
	}
	return GetOrderTransactionsQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderTransactionsQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderTransactionsQuery) Actor() kernel.Actor  { return q.actor }

func (q GetOrderTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTransactionsQueryIsNotConstructed)
}

type GetOrderTransactionsQueryResponse struct {
	ID          kernel.UUID
	Type        string
	Amount      kernel.Money
	FromUserID  *kernel.UUID
	ToUserID    *kernel.UUID
	Status      string
	Reference   string
	Description string
	CreatedAt   time.Time
	CompletedAt *time.Time
}
