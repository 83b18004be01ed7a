package order

import (
	"errors"
	"fmt"

	"lectio/internal/pkg/errs"
)

// DeliveryType selects how the student receives the order.
type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDelivery DeliveryType = "delivery"
)

func (t DeliveryType) Validate() error {
	if t != DeliveryTypePickup && t != DeliveryTypeDelivery {
		return errs.NewValueIsInvalidErrorWithCause("delivery type is invalid", fmt.Errorf("%q is not a delivery type", string(t)))
	}
	return nil
}

func (t DeliveryType) String() string {
	return string(t)
}

// Delivery is the hand-off preference of an order. Address and phone are set
// only for DeliveryTypeDelivery.
type Delivery struct {
	kind    DeliveryType
	address string
	phone   string
}

// NewPickupDelivery returns a pickup preference.
func NewPickupDelivery() Delivery {
	return Delivery{kind: DeliveryTypePickup}
}

// NewDelivery validates a preference as it arrives from a request or the
// database. Address and phone are ignored for pickup.
func NewDelivery(kind DeliveryType, address, phone string) (Delivery, error) {
	if err := kind.Validate(); err != nil {
		return Delivery{}, err
	}
	if kind == DeliveryTypePickup {
		return NewPickupDelivery(), nil
	}

	var missing []error
	if address == "" {
		missing = append(missing, errs.NewValueIsRequiredError("delivery address"))
	}
	if phone == "" {
		missing = append(missing, errs.NewValueIsRequiredError("delivery phone"))
	}
	if len(missing) > 0 {
		return Delivery{}, errors.Join(missing...)
	}

	return Delivery{kind: kind, address: address, phone: phone}, nil
}

func (d Delivery) Type() DeliveryType {
	return d.kind
}

func (d Delivery) Address() string {
	return d.address
}

func (d Delivery) Phone() string {
	return d.phone
}

func (d Delivery) IsHomeDelivery() bool {
	return d.kind == DeliveryTypeDelivery
}

func (d Delivery) Validate() error {
	_, err := NewDelivery(d.kind, d.address, d.phone)
	return err
}
