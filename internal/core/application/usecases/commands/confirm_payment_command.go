package commands

import (
	"errors"
	"strings"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand records that the payment gateway captured the buyer's
// money for an order.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	amount    kernel.Money
	reference string
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

func NewConfirmPaymentCommand(orderID kernel.UUID, amount kernel.Money, reference string, actor kernel.Actor) (ConfirmPaymentCommand, error) {
	reference = strings.TrimSpace(reference)
	var referenceErr error
	if reference == "" {
		referenceErr = errs.NewValueIsRequiredError("reference")
	}
	if err := errors.Join(orderID.Validate(), actor.Validate(), referenceErr); err != nil {
		return ConfirmPaymentCommand{}, err
	}
	return ConfirmPaymentCommand{
		orderID:   orderID,
		amount:    amount,
		reference: reference,
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPaymentCommand) OrderID() kernel.UUID { return c.orderID }
func (c ConfirmPaymentCommand) Amount() kernel.Money { return c.amount }
func (c ConfirmPaymentCommand) Reference() string    { return c.reference }
func (c ConfirmPaymentCommand) Actor() kernel.Actor  { return c.actor }

func (c *ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}
