package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/pkg/guard"
)

var ErrSubmitProofCommandIsNotConstructed = errors.New(
	"SubmitProofCommand must be created via NewSubmitProofCommand constructor",
)

// SubmitProofCommand carries the evidence of one checkpoint handoff. Photo
// count and coordinate ranges are checked by the handler so that they surface
// as the verification errors callers expect.
type SubmitProofCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	checkpoint    verification.Checkpoint
	photos        []string
	latitude      float64
	longitude     float64
	accuracy      *float64
	presentedCode string
	actor         kernel.Actor

	guard guard.ConstructorGuard
}

func NewSubmitProofCommand(
	orderID kernel.UUID,
	checkpoint verification.Checkpoint,
	photos []string,
	latitude, longitude float64,
	accuracy *float64,
	presentedCode string,
	actor kernel.Actor,
) (SubmitProofCommand, error) {
	if err := errors.Join(orderID.Validate(), checkpoint.Validate(), actor.Validate()); err != nil {
		return SubmitProofCommand{}, err
	}

	var acc *float64
	if accuracy != nil {
		a := *accuracy
		acc = &a
	}
	return SubmitProofCommand{
		orderID:       orderID,
		checkpoint:    checkpoint,
		photos:        append([]string(nil), photos...),
		latitude:      latitude,
		longitude:     longitude,
		accuracy:      acc,
		presentedCode: presentedCode,
		actor:         actor,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitProofCommand) OrderID() kernel.UUID                { return c.orderID }
func (c SubmitProofCommand) Checkpoint() verification.Checkpoint { return c.checkpoint }
func (c SubmitProofCommand) Photos() []string                    { return append([]string(nil), c.photos...) }
func (c SubmitProofCommand) Latitude() float64                   { return c.latitude }
func (c SubmitProofCommand) Longitude() float64                  { return c.longitude }
func (c SubmitProofCommand) Accuracy() *float64                  { return c.accuracy }
func (c SubmitProofCommand) PresentedCode() string               { return c.presentedCode }
func (c SubmitProofCommand) Actor() kernel.Actor                 { return c.actor }

func (c *SubmitProofCommand) Validate() error {
	return c.guard.Validate(ErrSubmitProofCommandIsNotConstructed)
}
