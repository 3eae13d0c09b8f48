package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/pkg/guard"
)

var ErrUpsertMemberCommandIsNotConstructed = errors.New(
	"UpsertMemberCommand must be created via NewUpsertMemberCommand constructor",
)

// UpsertMemberCommand syncs one member from the user catalog: it registers
// an unknown member or updates a courier's availability.
type UpsertMemberCommand struct { //nolint:recvcheck //using for validation
	memberID     kernel.UUID
	role         kernel.Role
	availability party.Availability
	actor        kernel.Actor

	guard guard.ConstructorGuard
}

func NewUpsertMemberCommand(memberID kernel.UUID, role kernel.Role, availability party.Availability, actor kernel.Actor) (UpsertMemberCommand, error) {
	if err := errors.Join(memberID.Validate(), role.Validate(), availability.Validate(), actor.Validate()); err != nil {
		return UpsertMemberCommand{}, err
	}
	return UpsertMemberCommand{
		memberID:     memberID,
		role:         role,
		availability: availability,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpsertMemberCommand) MemberID() kernel.UUID            { return c.memberID }
func (c UpsertMemberCommand) Role() kernel.Role                { return c.role }
func (c UpsertMemberCommand) Availability() party.Availability { return c.availability }
func (c UpsertMemberCommand) Actor() kernel.Actor              { return c.actor }

func (c *UpsertMemberCommand) Validate() error {
	return c.guard.Validate(ErrUpsertMemberCommandIsNotConstructed)
}
