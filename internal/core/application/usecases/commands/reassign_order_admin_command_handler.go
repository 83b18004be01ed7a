package commands

import (
	"context"
	"fmt"

	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/services"
	"lectio/internal/core/ports"
	"lectio/internal/pkg/errs"

	"go.uber.org/zap"
)

// ReassignOrderAdminCommandHandler replaces the assigned admin of an order in
// any status. The new admin must exist, hold a staff role and not be blocked.
type ReassignOrderAdminCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	logger     *zap.Logger
}

func NewReassignOrderAdminCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *zap.Logger,
) ReassignOrderAdminCommandHandler {
	return ReassignOrderAdminCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.Named("reassign_order_admin"),
	}
}

// Handle writes only the assigned admin, so a status change committed
// concurrently neither rejects the reassignment nor is overwritten by it.
func (h ReassignOrderAdminCommandHandler) Handle(ctx context.Context, cmd ReassignOrderAdminCommand) (*order.Order, error) {
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

	users := uow.UserRepository()
	if _, err := authorizeActor(ctx, users, cmd.ActorID(), services.StaffRoles...); err != nil {
		return nil, err
	}

	orders := uow.OrderRepository()
	reassigned, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	newAdmin, err := users.Get(ctx, cmd.NewAdminID())
	if err != nil {
		return nil, err
	}
	if !newAdmin.IsStaff() || newAdmin.IsBlocked() {
		return nil, errs.NewValueIsInvalidErrorWithCause("new admin",
			fmt.Errorf("user %s cannot be assigned orders", newAdmin.ID()))
	}

	var previous string
	if current := reassigned.AssignedAdmin(); current != nil {
		previous = current.String()
	}
	if err = reassigned.Reassign(newAdmin.ID()); err != nil {
		return nil, err
	}

	if err = orders.UpdateAssignedAdmin(ctx, reassigned); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.Info("order reassigned",
		zap.Stringer("order_id", reassigned.ID()),
		zap.String("previous_admin_id", previous),
		zap.Stringer("admin_id", cmd.NewAdminID()),
		zap.Stringer("by", cmd.ActorID()),
	)
	publishEvents(ctx, h.publisher, h.logger, reassigned)

	return reassigned, nil
}
