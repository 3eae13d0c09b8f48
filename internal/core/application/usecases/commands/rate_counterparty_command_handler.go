package commands

import (
	"context"
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

var (
	ErrOrderNotCompleted = errors.New("order is not completed")
	ErrAlreadyRated      = party.ErrAlreadyRated
)

// RateCounterpartyCommandHandler stores a rating and folds it into the rated
// member's average. Each rater rates each counterparty once per order.
type RateCounterpartyCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewRateCounterpartyCommandHandler(uowFactory UoWFactory, clock ports.Clock) RateCounterpartyCommandHandler {
	return RateCounterpartyCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h RateCounterpartyCommandHandler) Handle(ctx context.Context, cmd RateCounterpartyCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.Status() != order.Completed {
		return errs.NewPreconditionFailedError(ErrOrderNotCompleted, o.Status().String())
	}

	rater := cmd.Rater()
	if !o.IsParty(rater) {
		return kernel.NotPermitted(rater, "rate participants of this order")
	}
	ratedRole, err := partyRole(o, cmd.RatedUserID())
	if err != nil {
		return err
	}
	ratingType, err := party.RatingTypeFor(rater.Role(), ratedRole)
	if err != nil {
		return err
	}

	ratings := uow.RatingRepository()
	exists, err := ratings.Exists(ctx, o.ID(), rater.ID(), cmd.RatedUserID())
	if err != nil {
		return err
	}
	if exists {
		return errs.NewPreconditionFailedError(ErrAlreadyRated, cmd.RatedUserID().String())
	}

	rating, err := party.NewRating(o.ID(), rater.ID(), cmd.RatedUserID(), cmd.Score(), cmd.Review(), ratingType, h.clock.Now())
	if err != nil {
		return err
	}

	members := uow.MemberDirectory()
	rated, err := members.Get(ctx, cmd.RatedUserID())
	isNew := errors.Is(err, errs.ErrObjectNotFound)
	switch {
	case isNew:
		if rated, err = party.NewMember(cmd.RatedUserID(), ratedRole, party.Offline); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	if err = rated.RecordRating(rating.Score()); err != nil {
		return err
	}

	if err = ratings.Add(ctx, rating); err != nil {
		return err
	}
	if isNew {
		err = members.Add(ctx, rated)
	} else {
		err = members.Update(ctx, rated)
	}
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
