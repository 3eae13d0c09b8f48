package commands

import (
	"errors"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrResolveDisputeCommandIsNotConstructed = errors.New(
	"ResolveDisputeCommand must be created via NewResolveDisputeCommand constructor",
)

// PenaltyRequest names the member an admin penalises with a ruling.
type PenaltyRequest struct {
	UserID kernel.UUID
	Type   dispute.PenaltyType
	Reason string
}

// ResolveDisputeCommand is an admin's ruling on a dispute.
//
// Example:
//
//	refund := kernel.MustMoney("30")
//	cmd, err := NewResolveDisputeCommand(disputeID, dispute.PartialRefund, &refund, nil, "item damaged", admin)
type ResolveDisputeCommand struct { //nolint:recvcheck //using for validation
	disputeID    kernel.UUID
	decision     dispute.Decision
	refundAmount *kernel.Money
	penalty      *PenaltyRequest
	notes        string
	admin        kernel.Actor

	guard guard.ConstructorGuard
}

func NewResolveDisputeCommand(
	disputeID kernel.UUID,
	decision dispute.Decision,
	refundAmount *kernel.Money,
	penalty *PenaltyRequest,
	notes string,
	admin kernel.Actor,
) (ResolveDisputeCommand, error) {
	var penaltyErr error
	if penalty != nil {
		penaltyErr = errors.Join(penalty.UserID.Validate(), penalty.Type.Validate())
	}
	if err := errors.Join(disputeID.Validate(), decision.Validate(), admin.Validate(), penaltyErr); err != nil {
		return ResolveDisputeCommand{}, err
	}

	cmd := ResolveDisputeCommand{
		disputeID: disputeID,
		decision:  decision,
		notes:     notes,
		admin:     admin,
		guard:     guard.NewConstructorGuard(),
	}
	if refundAmount != nil {
		r := *refundAmount
		cmd.refundAmount = &r
	}
	if penalty != nil {
		p := *penalty
		cmd.penalty = &p
	}
	return cmd, nil
}

func (c ResolveDisputeCommand) DisputeID() kernel.UUID      { return c.disputeID }
func (c ResolveDisputeCommand) Decision() dispute.Decision  { return c.decision }
func (c ResolveDisputeCommand) RefundAmount() *kernel.Money { return c.refundAmount }
func (c ResolveDisputeCommand) Penalty() *PenaltyRequest    { return c.penalty }
func (c ResolveDisputeCommand) Notes() string               { return c.notes }
func (c ResolveDisputeCommand) Admin() kernel.Actor         { return c.admin }

func (c *ResolveDisputeCommand) Validate() error {
	return c.guard.Validate(ErrResolveDisputeCommandIsNotConstructed)
}
