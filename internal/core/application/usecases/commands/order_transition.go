package commands

import (
	"context"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/services"
)

// transitionFunc applies one domain transition to a loaded order. It may read
// through uow; it must not commit.
type transitionFunc func(ctx context.Context, uow OrderUoW, o *order.Order) error

// transitionOrder authorizes actorID as staff, loads the order, applies the
// transition and persists it with a compare-and-set on the status the order
// was loaded with. A concurrent change between load and update surfaces as
// *errs.TransitionRejectedError from the repository.
func transitionOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	actorID, orderID kernel.UUID,
	apply transitionFunc,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := authorizeActor(ctx, uow.UserRepository(), actorID, services.StaffRoles...); err != nil {
		return nil, err
	}

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expected := o.Status()
	if err = apply(ctx, uow, o); err != nil {
		return nil, err
	}

	if err = orders.Update(ctx, o, expected); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
