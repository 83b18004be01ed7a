package queries

import (
	"errors"
	"time"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of callerID. Students only see
// their own orders; staff see all of them.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	callerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID, callerID kernel.UUID) (GetOrderQuery, error) {
	q := GetOrderQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		orderID.Validate(),
		callerID.Validate(),
	); err != nil {
		return GetOrderQuery{}, err
	}
	q.orderID = orderID
	q.callerID = callerID

	return q, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) CallerID() kernel.UUID {
	return q.callerID
}

// GetOrderQueryResponse is the order as shown to its student or to staff.
// Status and DeliveryType use their wire names.
type GetOrderQueryResponse struct {
	ID              kernel.UUID
	StudentID       kernel.UUID
	Status          string
	DeliveryType    string
	DeliveryAddress string
	DeliveryPhone   string
	AssignedAdminID *kernel.UUID
	AppointmentDate *time.Time
	TrackingID      string
	Total           decimal.Decimal
	CreatedAt       time.Time
	Items           []GetOrderQueryItem
}

// GetOrderQueryItem is one line item with the price captured at creation.
// Title is empty when the material no longer exists in the catalogue.
type GetOrderQueryItem struct {
	MaterialID kernel.UUID
	Title      string
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}
