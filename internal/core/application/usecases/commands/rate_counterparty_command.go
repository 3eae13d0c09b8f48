package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/pkg/guard"
)

var ErrRateCounterpartyCommandIsNotConstructed = errors.New(
	"RateCounterpartyCommand must be created via NewRateCounterpartyCommand constructor",
)

// RateCounterpartyCommand is a buyer or seller scoring another participant of
// a completed order.
type RateCounterpartyCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	rater       kernel.Actor
	ratedUserID kernel.UUID
	score       party.Score
	review      string

	guard guard.ConstructorGuard
}

func NewRateCounterpartyCommand(
	orderID kernel.UUID,
	rater kernel.Actor,
	ratedUserID kernel.UUID,
	score party.Score,
	review string,
) (RateCounterpartyCommand, error) {
	if err := errors.Join(orderID.Validate(), rater.Validate(), ratedUserID.Validate(), score.Validate()); err != nil {
		return RateCounterpartyCommand{}, err
	}
	return RateCounterpartyCommand{
		orderID:     orderID,
		rater:       rater,
		ratedUserID: ratedUserID,
		score:       score,
		review:      review,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RateCounterpartyCommand) OrderID() kernel.UUID     { return c.orderID }
func (c RateCounterpartyCommand) Rater() kernel.Actor      { return c.rater }
func (c RateCounterpartyCommand) RatedUserID() kernel.UUID { return c.ratedUserID }
func (c RateCounterpartyCommand) Score() party.Score       { return c.score }
func (c RateCounterpartyCommand) Review() string           { return c.review }

func (c *RateCounterpartyCommand) Validate() error {
	return c.guard.Validate(ErrRateCounterpartyCommandIsNotConstructed)
}
