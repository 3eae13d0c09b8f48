package commands

import (
	"errors"

	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/guard"
)

// DefaultAutoConfirmBatchSize caps how many orders one run completes.
const DefaultAutoConfirmBatchSize = 100

var ErrAutoConfirmDeliveriesCommandIsNotConstructed = errors.New(
	"AutoConfirmDeliveriesCommand must be created via NewAutoConfirmDeliveriesCommand constructor",
)

// AutoConfirmDeliveriesCommand completes delivered orders whose buyer
// confirmation window has closed.
type AutoConfirmDeliveriesCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewAutoConfirmDeliveriesCommand(batchSize int) (AutoConfirmDeliveriesCommand, error) {
	if batchSize <= 0 {
		return AutoConfirmDeliveriesCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, nil)
	}
	return AutoConfirmDeliveriesCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c AutoConfirmDeliveriesCommand) BatchSize() int { return c.batchSize }

func (c *AutoConfirmDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrAutoConfirmDeliveriesCommandIsNotConstructed)
}
