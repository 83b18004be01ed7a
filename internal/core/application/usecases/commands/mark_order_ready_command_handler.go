package commands

import (
	"context"
	"errors"

	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/ports"
	"lectio/internal/pkg/errs"

	"go.uber.org/zap"
)

// MarkOrderReadyCommandHandler moves a printing order to ready. For a home
// delivery order it then asks the courier for a shipment.
//
// Ready is committed before the courier is called. When the courier fails the
// order stays Ready without a tracking id and Handle still succeeds; calling
// Handle again on that order, or the shipment retry job, retries the courier.
type MarkOrderReadyCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher *ShipmentDispatcher
	publisher  ports.OrderEventPublisher
	logger     *zap.Logger
}

func NewMarkOrderReadyCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher *ShipmentDispatcher,
	publisher ports.OrderEventPublisher,
	logger *zap.Logger,
) MarkOrderReadyCommandHandler {
	return MarkOrderReadyCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger.Named("mark_order_ready"),
	}
}

// Handle returns the order as it stands after the courier step: OutForDelivery
// when the shipment was created, Ready otherwise.
func (h MarkOrderReadyCommandHandler) Handle(ctx context.Context, cmd MarkOrderReadyCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ready, err := transitionOrder(ctx, h.uowFactory, cmd.AdminID(), cmd.OrderID(),
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			return o.MarkReady(cmd.AdminID(), cmd.AppointmentDate())
		})
	if err != nil {
		return nil, err
	}

	h.logger.Info("order ready",
		zap.Stringer("order_id", ready.ID()),
		zap.Stringer("admin_id", cmd.AdminID()),
		zap.Time("appointment_date", cmd.AppointmentDate()),
		zap.Stringer("delivery_type", ready.DeliveryType()),
	)
	publishEvents(ctx, h.publisher, h.logger, ready)

	err = h.dispatcher.Ship(ctx, ready)
	switch {
	case err == nil, errors.Is(err, errs.ErrCourierFailure):
		return ready, nil
	case errors.Is(err, ErrShipmentInProgress):
		// another attempt owns the courier call; report what is stored now
		return h.uowFactory.Create().OrderRepository().Get(ctx, ready.ID())
	default:
		return nil, err
	}
}
