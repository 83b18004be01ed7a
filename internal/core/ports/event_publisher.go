package ports

import (
	"context"

	"lectio/internal/core/domain/model/order"
)

// OrderEventPublisher delivers committed order events to other systems.
// Publishing happens after commit and is best effort.
type OrderEventPublisher interface {
	Publish(ctx context.Context, events ...order.Event) error
}
