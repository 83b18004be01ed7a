package order

import (
	"errors"
	"fmt"
	"time"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/errs"
	"lectio/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrAdminMismatch is the cause attached to a rejected pickup hand-over by
	// an admin other than the assigned one.
	ErrAdminMismatch = errors.New("caller is not the assigned admin")
)

// Order is a student's request for printed course materials. It is the
// aggregate root of the fulfillment domain: it owns its line items, its status
// and the hand-off details, and it is the only place where lifecycle rules are
// enforced.
//
// Order follows these invariants:
//   - Has a valid identifier, a valid student and at least one item
//   - Status only moves forward along the lifecycle described in the package doc
//   - AssignedAdmin is set whenever Status is past Pending
//   - AppointmentDate is set whenever Status is Ready or later
//   - TrackingID is set only for home delivery, and only once the order is
//     OutForDelivery or Delivered
type Order struct {
	id        kernel.UUID
	studentID kernel.UUID
	items     []Item
	delivery  Delivery
	status    Status

	// assignedAdmin is nil until the order is accepted
	assignedAdmin   *kernel.UUID
	appointmentDate *time.Time
	trackingID      string
	createdAt       time.Time

	events []Event
	guard  guard.ConstructorGuard
}

// NewOrder creates a Pending order with no admin assigned.
//
// Parameters:
//   - id: Unique identifier for the order
//   - studentID: The placing user, owner of the order
//   - items: Line items, at least one, with prices already snapshotted
//   - delivery: Hand-off preference, see NewDelivery
//   - createdAt: Creation timestamp, stored in UTC
//
// A Created event is recorded on success.
func NewOrder(id, studentID kernel.UUID, items []Item, delivery Delivery, createdAt time.Time) (*Order, error) {
	o, err := RestoreOrder(State{
		ID:        id,
		StudentID: studentID,
		Items:     items,
		Delivery:  delivery,
		Status:    Pending,
		CreatedAt: createdAt,
	})
	if err != nil {
		return nil, err
	}

	o.record(EventCreated, Unknown)
	return o, nil
}

// State is the full persisted form of an order, used to rebuild the aggregate
// from storage.
type State struct {
	ID              kernel.UUID
	StudentID       kernel.UUID
	Items           []Item
	Delivery        Delivery
	Status          Status
	AssignedAdmin   *kernel.UUID
	AppointmentDate *time.Time
	TrackingID      string
	CreatedAt       time.Time
}

// RestoreOrder rebuilds an order from its persisted State, checking every
// invariant. No event is recorded.
func RestoreOrder(state State) (*Order, error) {
	o := &Order{
		status:     state.Status,
		trackingID: state.TrackingID,
		createdAt:  state.CreatedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(state.ID),
		o.setStudentID(state.StudentID),
		o.setItems(state.Items),
		o.setDelivery(state.Delivery),
		o.setCreatedAt(state.CreatedAt),
		state.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if state.AssignedAdmin != nil {
		admin := *state.AssignedAdmin
		if err := admin.Validate(); err != nil {
			return nil, err
		}
		o.assignedAdmin = &admin
	}
	if state.AppointmentDate != nil {
		date := state.AppointmentDate.UTC()
		o.appointmentDate = &date
	}

	if err := o.checkLifecycle(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) StudentID() kernel.UUID {
	return o.studentID
}

// Items returns a copy of the line items in their original order.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) Delivery() Delivery {
	return o.delivery
}

func (o *Order) DeliveryType() DeliveryType {
	return o.delivery.Type()
}

func (o *Order) Status() Status {
	return o.status
}

// AssignedAdmin returns nil while the order is Pending.
func (o *Order) AssignedAdmin() *kernel.UUID {
	if o.assignedAdmin == nil {
		return nil
	}
	admin := *o.assignedAdmin
	return &admin
}

func (o *Order) AppointmentDate() *time.Time {
	if o.appointmentDate == nil {
		return nil
	}
	date := *o.appointmentDate
	return &date
}

// TrackingID returns the courier tracking id, empty until a shipment exists.
func (o *Order) TrackingID() string {
	return o.trackingID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// State returns the persisted form of the order; RestoreOrder(o.State())
// yields an equal order without events.
func (o *Order) State() State {
	return State{
		ID:              o.id,
		StudentID:       o.studentID,
		Items:           o.Items(),
		Delivery:        o.delivery,
		Status:          o.status,
		AssignedAdmin:   o.AssignedAdmin(),
		AppointmentDate: o.AppointmentDate(),
		TrackingID:      o.trackingID,
		CreatedAt:       o.createdAt,
	}
}

// Total is the sum of item subtotals at snapshotted prices.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID kernel.UUID) bool {
	return o.studentID.IsEqual(userID)
}

// NeedsShipment reports whether a courier shipment still has to be created:
// a home delivery order that is Ready and has no tracking id.
func (o *Order) NeedsShipment() bool {
	return o.delivery.IsHomeDelivery() && o.status == Ready && o.trackingID == ""
}

// Accept moves a Pending order to Printing and assigns adminID.
//
// Accepting an order that is not Pending is rejected with a
// TransitionRejectedError naming Pending, even if the order is Printing.
func (o *Order) Accept(adminID kernel.UUID) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	next, err := o.status.Accept()
	if err != nil {
		return err
	}

	prev := o.status
	o.status = next
	o.assignedAdmin = &adminID
	o.record(EventStatusChanged, prev)
	return nil
}

// MarkReady moves a Printing order to Ready, stores the appointment date and
// assigns adminID.
//
// A home delivery order that is already Ready and still has no tracking id
// accepts MarkReady again: the appointment date and admin are refreshed and
// the status stays Ready, so the shipment can be retried. Any other state is
// rejected with a TransitionRejectedError naming Printing.
func (o *Order) MarkReady(adminID kernel.UUID, appointmentDate time.Time) error {
	if err := errors.Join(
		adminID.Validate(),
		validateAppointmentDate(appointmentDate),
	); err != nil {
		return err
	}

	prev := o.status
	if !o.NeedsShipment() {
		next, err := o.status.MarkReady()
		if err != nil {
			return err
		}
		o.status = next
	}

	date := appointmentDate.UTC()
	o.appointmentDate = &date
	o.assignedAdmin = &adminID
	o.record(EventStatusChanged, prev)
	return nil
}

// AttachShipment records the courier tracking id and moves a Ready home
// delivery order to OutForDelivery.
func (o *Order) AttachShipment(trackingID string) error {
	if trackingID == "" {
		return errs.NewValueIsRequiredError("tracking id")
	}
	if !o.delivery.IsHomeDelivery() {
		return errs.NewTransitionRejectedErrorWithCause(
			"attach shipment to", o.status.String(), Ready.String(),
			fmt.Errorf("%s orders are not shipped", o.delivery.Type()),
		)
	}
	if o.trackingID != "" {
		return errs.NewTransitionRejectedErrorWithCause(
			"attach shipment to", o.status.String(), Ready.String(),
			fmt.Errorf("shipment %s already attached", o.trackingID),
		)
	}

	next, err := o.status.Dispatch()
	if err != nil {
		return err
	}

	prev := o.status
	o.status = next
	o.trackingID = trackingID
	o.record(EventStatusChanged, prev)
	return nil
}

// MarkDelivered closes the order.
//
// Pickup orders must be Ready and can only be handed over by the assigned
// admin; a different admin gets a TransitionRejectedError caused by
// ErrAdminMismatch. Home delivery orders must be OutForDelivery and accept any
// admin, since the courier performed the hand-over.
func (o *Order) MarkDelivered(adminID kernel.UUID) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	next, err := o.status.Deliver(o.delivery.Type())
	if err != nil {
		return err
	}

	if !o.delivery.IsHomeDelivery() && (o.assignedAdmin == nil || !o.assignedAdmin.IsEqual(adminID)) {
		return errs.NewTransitionRejectedErrorWithCause(
			"mark delivered", o.status.String(), Ready.String(), ErrAdminMismatch,
		)
	}

	prev := o.status
	o.status = next
	o.record(EventStatusChanged, prev)
	return nil
}

// Reassign replaces the assigned admin without touching the status. It is
// allowed in every state.
func (o *Order) Reassign(adminID kernel.UUID) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	o.assignedAdmin = &adminID
	o.record(EventAdminReassigned, o.status)
	return nil
}

// PullEvents returns the recorded events and clears them.
func (o *Order) PullEvents() []Event {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) record(kind EventKind, prev Status) {
	o.events = append(o.events, Event{
		Kind:           kind,
		OrderID:        o.id,
		StudentID:      o.studentID,
		PreviousStatus: prev,
		Status:         o.status,
		DeliveryType:   o.delivery.Type(),
		AssignedAdmin:  o.AssignedAdmin(),
		TrackingID:     o.trackingID,
		OccurredAt:     time.Now().UTC(),
	})
}

func (o *Order) checkLifecycle() error {
	if o.status > Pending && o.assignedAdmin == nil {
		return errs.NewValueIsRequiredErrorWithCause("assigned admin",
			fmt.Errorf("order in %s status has no assigned admin", o.status))
	}
	if o.status >= Ready && o.appointmentDate == nil {
		return errs.NewValueIsRequiredErrorWithCause("appointment date",
			fmt.Errorf("order in %s status has no appointment date", o.status))
	}
	if o.trackingID != "" {
		if !o.delivery.IsHomeDelivery() {
			return errs.NewValueIsInvalidErrorWithCause("tracking id",
				fmt.Errorf("%s order cannot carry a tracking id", o.delivery.Type()))
		}
		if o.status < OutForDelivery {
			return errs.NewValueIsInvalidErrorWithCause("tracking id",
				fmt.Errorf("order in %s status cannot carry a tracking id", o.status))
		}
	}
	if o.status == OutForDelivery && (!o.delivery.IsHomeDelivery() || o.trackingID == "") {
		return errs.NewValueIsRequiredErrorWithCause("tracking id",
			fmt.Errorf("order in %s status has no tracking id", o.status))
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStudentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("student id", err)
	}
	o.studentID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if item.quantity <= 0 || item.materialID.Validate() != nil {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %d was not created via NewItem", i))
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDelivery(delivery Delivery) error {
	if err := delivery.Validate(); err != nil {
		return err
	}
	o.delivery = delivery
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	return nil
}

func validateAppointmentDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("appointment date")
	}
	return nil
}
