package commands

import (
	"context"

	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/ports"

	"go.uber.org/zap"
)

// MarkOrderDeliveredCommandHandler closes a pickup order handed over by its
// assigned admin, or a home delivery order the courier has delivered.
type MarkOrderDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *zap.Logger
}

func NewMarkOrderDeliveredCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *zap.Logger,
) MarkOrderDeliveredCommandHandler {
	return MarkOrderDeliveredCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.Named("mark_order_delivered"),
	}
}

func (h MarkOrderDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkOrderDeliveredCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	delivered, err := transitionOrder(ctx, h.uowFactory, cmd.AdminID(), cmd.OrderID(),
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			return o.MarkDelivered(cmd.AdminID())
		})
	if err != nil {
		return nil, err
	}

	h.logger.Info("order delivered",
		zap.Stringer("order_id", delivered.ID()),
		zap.Stringer("admin_id", cmd.AdminID()),
		zap.Stringer("delivery_type", delivered.DeliveryType()),
	)
	publishEvents(ctx, h.publisher, h.logger, delivered)

	return delivered, nil
}
