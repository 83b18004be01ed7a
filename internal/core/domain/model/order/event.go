package order

import (
	"time"

	"lectio/internal/core/domain/model/kernel"
)

// EventKind classifies an Event.
type EventKind string

const (
	EventCreated         EventKind = "order.created"
	EventStatusChanged   EventKind = "order.status_changed"
	EventAdminReassigned EventKind = "order.admin_reassigned"
)

// Event describes a change of an order. It is a snapshot: later changes to the
// aggregate do not alter recorded events.
type Event struct {
	Kind           EventKind
	OrderID        kernel.UUID
	StudentID      kernel.UUID
	PreviousStatus Status
	Status         Status
	DeliveryType   DeliveryType
	AssignedAdmin  *kernel.UUID
	TrackingID     string
	OccurredAt     time.Time
}
