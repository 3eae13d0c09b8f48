package commands

import (
	"context"
	"errors"
	"fmt"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/pkg/errs"
)

var ErrRoleChange = errors.New("member role cannot change")

// UpsertMemberCommandHandler lets admins and the system register members and
// lets couriers toggle their own availability. Strikes, bans and ratings are
// never written here.
type UpsertMemberCommandHandler struct {
	uowFactory UoWFactory
}

func NewUpsertMemberCommandHandler(uowFactory UoWFactory) UpsertMemberCommandHandler {
	return UpsertMemberCommandHandler{uowFactory: uowFactory}
}

func (h UpsertMemberCommandHandler) Handle(ctx context.Context, cmd UpsertMemberCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor := cmd.Actor()
	if !actor.IsPrivileged() && !actor.ID().IsEqual(cmd.MemberID()) {
		return kernel.NotPermitted(actor, "update member "+cmd.MemberID().String())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	members := uow.MemberDirectory()
	member, err := members.Get(ctx, cmd.MemberID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		if !actor.IsPrivileged() {
			return kernel.NotPermitted(actor, "register members")
		}
		if member, err = party.NewMember(cmd.MemberID(), cmd.Role(), cmd.Availability()); err != nil {
			return err
		}
		if err = members.Add(ctx, member); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if member.Role() != cmd.Role() {
			return errs.NewPreconditionFailedError(ErrRoleChange, fmt.Sprintf("%s is %s", member.ID(), member.Role()))
		}
		if member.IsBanned() && cmd.Availability() == party.Available {
			return errs.NewPreconditionFailedError(party.ErrMemberBanned, member.ID().String())
		}
		if err = member.SetAvailability(cmd.Availability()); err != nil {
			return err
		}
		if err = members.Update(ctx, member); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
