package commands

import (
	"errors"

	"lectio/internal/pkg/errs"
	"lectio/internal/pkg/guard"
)

const DefaultRetryBatchSize = 50

var ErrRetryPendingShipmentsCommandIsNotConstructed = errors.New(
	"RetryPendingShipmentsCommand must be created via NewRetryPendingShipmentsCommand constructor",
)

// RetryPendingShipmentsCommand asks for up to BatchSize Ready home delivery
// orders without a tracking id to be handed to the courier again.
type RetryPendingShipmentsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewRetryPendingShipmentsCommand(batchSize int) (RetryPendingShipmentsCommand, error) {
	if batchSize <= 0 {
		return RetryPendingShipmentsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}

	return RetryPendingShipmentsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RetryPendingShipmentsCommand) Validate() error {
	return c.guard.Validate(ErrRetryPendingShipmentsCommandIsNotConstructed)
}

func (c RetryPendingShipmentsCommand) BatchSize() int {
	return c.batchSize
}
