package commands

import (
	"context"
	"fmt"
	"time"

	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/services"
	"lectio/internal/core/ports"
	"lectio/internal/pkg/errs"

	"go.uber.org/zap"
)

// CreateOrderCommandHandler places an order for the acting student. Unit prices
// are copied from the catalogue into the line items; later catalogue changes do
// not affect the order.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.OrderEventPublisher
	logger     *zap.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.OrderEventPublisher,
	logger *zap.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.Named("create_order"),
	}
}

// Handle returns *errs.UnauthorizedError for an unknown or blocked student,
// *errs.ObjectNotFoundError for an unknown material and
// *errs.ValueIsInvalidError for an unavailable one.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := authorizeActor(ctx, uow.UserRepository(), cmd.StudentID(), services.AnyRole...); err != nil {
		return nil, err
	}

	materials := uow.MaterialRepository()
	lines := cmd.Lines()
	items := make([]order.Item, 0, len(lines))
	for i, line := range lines {
		m, err := materials.Get(ctx, line.MaterialID)
		if err != nil {
			return nil, err
		}
		if !m.IsAvailable() {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].material", i), fmt.Errorf("material %s is not available", m.ID()))
		}

		item, err := order.NewItem(m.ID(), line.Quantity, m.Price())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	created, err := order.NewOrder(cmd.OrderID(), cmd.StudentID(), items, cmd.Delivery(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.Info("order created",
		zap.Stringer("order_id", created.ID()),
		zap.Stringer("student_id", created.StudentID()),
		zap.Stringer("delivery_type", created.DeliveryType()),
		zap.Int("items", len(items)),
	)
	publishEvents(ctx, h.publisher, h.logger, created)

	return created, nil
}
