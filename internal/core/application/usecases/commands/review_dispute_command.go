package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrReviewDisputeCommandIsNotConstructed = errors.New(
	"ReviewDisputeCommand must be created via NewReviewDisputeCommand constructor",
)

type ReviewDisputeCommand struct { //nolint:recvcheck //using for validation
	disputeID kernel.UUID
	admin     kernel.Actor
	notes     string

	guard guard.ConstructorGuard
}

func NewReviewDisputeCommand(disputeID kernel.UUID, admin kernel.Actor, notes string) (ReviewDisputeCommand, error) {
	if err := errors.Join(disputeID.Validate(), admin.Validate()); err != nil {
		return ReviewDisputeCommand{}, err
	}
	return ReviewDisputeCommand{disputeID: disputeID, admin: admin, notes: notes, guard: guard.NewConstructorGuard()}, nil
}

func (c ReviewDisputeCommand) DisputeID() kernel.UUID { return c.disputeID }
func (c ReviewDisputeCommand) Admin() kernel.Actor    { return c.admin }
func (c ReviewDisputeCommand) Notes() string          { return c.notes }

func (c *ReviewDisputeCommand) Validate() error {
	return c.guard.Validate(ErrReviewDisputeCommandIsNotConstructed)
}
