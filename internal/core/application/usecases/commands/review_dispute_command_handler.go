package commands

import (
	"context"
)

// ReviewDisputeCommandHandler moves an open dispute under review.
type ReviewDisputeCommandHandler struct {
	uowFactory UoWFactory
}

func NewReviewDisputeCommandHandler(uowFactory UoWFactory) ReviewDisputeCommandHandler {
	return ReviewDisputeCommandHandler{uowFactory: uowFactory}
}

func (h ReviewDisputeCommandHandler) Handle(ctx context.Context, cmd ReviewDisputeCommand) error {
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

	repo := uow.DisputeRepository()
	d, err := repo.Get(ctx, cmd.DisputeID())
	if err != nil {
		return err
	}

	if err = d.StartReview(cmd.Admin(), cmd.Notes()); err != nil {
		return err
	}

	if err = repo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
