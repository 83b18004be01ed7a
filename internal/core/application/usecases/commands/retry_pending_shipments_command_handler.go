package commands

import (
	"context"
	"errors"

	"lectio/internal/pkg/errs"

	"go.uber.org/zap"
)

// RetryPendingShipmentsCommandHandler re-runs the courier step for orders whose
// shipment failed earlier. One order failing does not stop the batch.
type RetryPendingShipmentsCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher *ShipmentDispatcher
	logger     *zap.Logger
}

func NewRetryPendingShipmentsCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher *ShipmentDispatcher,
	logger *zap.Logger,
) RetryPendingShipmentsCommandHandler {
	return RetryPendingShipmentsCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		logger:     logger.Named("retry_pending_shipments"),
	}
}

// Handle returns how many orders went out for delivery.
func (h RetryPendingShipmentsCommandHandler) Handle(ctx context.Context, cmd RetryPendingShipmentsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	pending, err := h.uowFactory.Create().OrderRepository().GetAllAwaitingShipment(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	shipped := 0
	for _, o := range pending {
		if err = ctx.Err(); err != nil {
			return shipped, err
		}

		err = h.dispatcher.Ship(ctx, o)
		switch {
		case err == nil:
			shipped++
		case errors.Is(err, errs.ErrCourierFailure), errors.Is(err, ErrShipmentInProgress):
			// already logged by the dispatcher
		default:
			h.logger.Error("shipment retry failed", zap.Stringer("order_id", o.ID()), zap.Error(err))
		}
	}

	if len(pending) > 0 {
		h.logger.Info("shipment retry finished",
			zap.Int("pending", len(pending)),
			zap.Int("shipped", shipped),
		)
	}
	return shipped, nil
}
