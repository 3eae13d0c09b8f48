package queries

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrGetDisputeQueryIsNotConstructed = errors.New(
	"GetDisputeQuery must be created via NewGetDisputeQuery constructor",
)

// GetDisputeQuery reads one dispute. Access follows the disputed order.
type GetDisputeQuery struct {
	disputeID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetDisputeQuery(disputeID kernel.UUID, actor kernel.Actor) (GetDisputeQuery, error) {
	if err := errors.Join(disputeID.Validate(), actor.Validate()); err != nil {
		return GetDisputeQuery{}, err
	}
	return GetDisputeQuery{disputeID: disputeID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDisputeQuery) DisputeID() kernel.UUID { return q.disputeID }
func (q GetDisputeQuery) Actor() kernel.Actor    { return q.actor }

func (q GetDisputeQuery) Validate() error {
	return q.guard.Validate(ErrGetDisputeQueryIsNotConstructed)
}

type GetDisputeQueryResponse struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	RaisedBy     kernel.UUID
	RaisedByRole string
	Reason       string
	Description  string
	Evidence     []string
	Status       string
	AdminNotes   string
	CreatedAt    time.Time
	ResolvedAt   *time.Time
	ResolvedBy   *kernel.UUID
	Resolution   *DisputeResolutionView
}

type DisputeResolutionView struct {
	Decision      string
	RefundAmount  kernel.Money
	Notes         string
	PenaltyUserID *kernel.UUID
	PenaltyType   string
	PenaltyReason string
}
