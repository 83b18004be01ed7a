package order

import (
	"fmt"

	"lectio/internal/pkg/errs"
)

// Status is the position of an order in its lifecycle. The numeric values are
// persisted and ordered: a transition always moves to a greater value.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Printing
	Ready
	OutForDelivery
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Printing:       "printing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
	}
}

// Validate accepts Pending through Delivered.
func (s Status) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Accept moves Pending to Printing.
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewTransitionRejectedError("accept", s.String(), Pending.String())
	}
	return Printing, nil
}

// MarkReady moves Printing to Ready.
func (s Status) MarkReady() (Status, error) {
	if s != Printing {
		return Unknown, errs.NewTransitionRejectedError("mark ready", s.String(), Printing.String())
	}
	return Ready, nil
}

// Dispatch moves Ready to OutForDelivery once the courier holds the parcel.
func (s Status) Dispatch() (Status, error) {
	if s != Ready {
		return Unknown, errs.NewTransitionRejectedError("dispatch", s.String(), Ready.String())
	}
	return OutForDelivery, nil
}

// Deliver moves a pickup order from Ready, or a delivery order from
// OutForDelivery, to Delivered.
func (s Status) Deliver(deliveryType DeliveryType) (Status, error) {
	expected := Ready
	if deliveryType == DeliveryTypeDelivery {
		expected = OutForDelivery
	}
	if s != expected {
		return Unknown, errs.NewTransitionRejectedError("mark delivered", s.String(), expected.String())
	}
	return Delivered, nil
}
