package commands

import (
	"context"
	"errors"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/model/user"
	"lectio/internal/core/domain/services"
	"lectio/internal/core/ports"
	"lectio/internal/pkg/errs"

	"go.uber.org/zap"
)

// authorizeActor loads the acting user and checks roles. An unknown actor is
// unauthorized, not "not found".
func authorizeActor(ctx context.Context, users ports.UserRepository, actorID kernel.UUID, roles ...user.Role) (*user.User, error) {
	actor, err := users.Get(ctx, actorID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewUnauthorizedError("unknown user " + actorID.String())
	}
	if err != nil {
		return nil, err
	}

	if err = services.NewAccessGate().Authorize(actor, roles...); err != nil {
		return nil, err
	}
	return actor, nil
}

// publishEvents drains o's events to publisher. Failures are logged: the
// change is already committed.
func publishEvents(ctx context.Context, publisher ports.OrderEventPublisher, logger *zap.Logger, o *order.Order) {
	events := o.PullEvents()
	if len(events) == 0 || publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish order events",
			zap.Stringer("order_id", o.ID()),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}
