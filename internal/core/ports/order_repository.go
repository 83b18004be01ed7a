// Package ports defines the contracts between the fulfillment core and its
// infrastructure: persistence, the delivery courier and event publishing.
package ports

import (
	"context"
	"time"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the aggregate only if the stored status still equals
	// expected (compare-and-set). If the order exists but its status moved on,
	// Update returns an *errs.TransitionRejectedError; if the order does not
	// exist, an *errs.ObjectNotFoundError.
	//
	// Example:
	//   prev := o.Status()
	//   if err := o.Accept(adminID); err != nil {
	//       return err
	//   }
	//   if err := repo.Update(ctx, o, prev); err != nil {
	//       return err
	//   }
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order with its line items.
	// Returns *errs.ObjectNotFoundError when id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateAssignedAdmin writes the assigned admin whatever the stored status
	// is. Returns *errs.ObjectNotFoundError when the order is unknown.
	UpdateAssignedAdmin(ctx context.Context, aggregate *order.Order) error

	// ClaimShipment marks a Ready home delivery order without a tracking id as
	// being shipped, at claimedAt. It reports false when the order is not
	// awaiting shipment or holds a claim taken after staleBefore. The claim is
	// written immediately, outside any transaction of the caller.
	ClaimShipment(ctx context.Context, id kernel.UUID, claimedAt, staleBefore time.Time) (bool, error)

	// ReleaseShipment drops the claim so the next attempt does not wait for it
	// to go stale.
	ReleaseShipment(ctx context.Context, id kernel.UUID) error

	// GetAllAwaitingShipment returns up to limit home delivery orders that are
	// Ready without a tracking id, oldest first.
	GetAllAwaitingShipment(ctx context.Context, limit int) ([]*order.Order, error)
}
