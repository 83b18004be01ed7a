package queries

import (
	"encoding/json"
	"errors"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/guard"
)

var ErrGetDeliveryStatusQueryIsNotConstructed = errors.New(
	"GetDeliveryStatusQuery must be created via NewGetDeliveryStatusQuery constructor",
)

// GetDeliveryStatusQuery asks where an order stands, including the courier's
// view of the parcel once one exists.
//
// Example:
//
//	query, err := NewGetDeliveryStatusQuery(orderID, callerID)
//	if err != nil {
//	    return err
//	}
//	status, err := handler.Handle(ctx, query)
//	if status.ShipmentUnavailable {
//	    // courier could not be reached; local status is still accurate
//	}
type GetDeliveryStatusQuery struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	callerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDeliveryStatusQuery(orderID, callerID kernel.UUID) (GetDeliveryStatusQuery, error) {
	q := GetDeliveryStatusQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		orderID.Validate(),
		callerID.Validate(),
	); err != nil {
		return GetDeliveryStatusQuery{}, err
	}
	q.orderID = orderID
	q.callerID = callerID

	return q, nil
}

func (q GetDeliveryStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryStatusQueryIsNotConstructed)
}

func (q GetDeliveryStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetDeliveryStatusQuery) CallerID() kernel.UUID {
	return q.callerID
}

// GetDeliveryStatusQueryResponse combines the local order status with the
// courier's status document. Shipment is nil when the order has no tracking
// id. ShipmentUnavailable is set when the courier could not be queried.
type GetDeliveryStatusQueryResponse struct {
	OrderID             kernel.UUID
	Status              string
	DeliveryType        string
	TrackingID          string
	Shipment            json.RawMessage
	ShipmentUnavailable bool
}
