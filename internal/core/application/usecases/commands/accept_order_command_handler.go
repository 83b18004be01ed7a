package commands

import (
	"context"

	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/ports"

	"go.uber.org/zap"
)

// AcceptOrderCommandHandler moves a pending order to printing and assigns the
// accepting admin.
//
// Example:
//
//	cmd, _ := NewAcceptOrderCommand(orderID, adminID)
//	accepted, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrTransitionRejected):
//	    // order is no longer pending
//	case errors.Is(err, errs.ErrUnauthorized):
//	    // caller is not staff
//	}
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *zap.Logger
}

func NewAcceptOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *zap.Logger,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.Named("accept_order"),
	}
}

func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	accepted, err := transitionOrder(ctx, h.uowFactory, cmd.AdminID(), cmd.OrderID(),
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			return o.Accept(cmd.AdminID())
		})
	if err != nil {
		return nil, err
	}

	h.logger.Info("order accepted",
		zap.Stringer("order_id", accepted.ID()),
		zap.Stringer("admin_id", cmd.AdminID()),
	)
	publishEvents(ctx, h.publisher, h.logger, accepted)

	return accepted, nil
}
