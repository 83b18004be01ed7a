package commands

import (
	"errors"
	"fmt"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/pkg/errs"
	"lectio/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one requested material. Each line states a delivery preference;
// the order takes the preference of its first line.
type OrderLine struct {
	MaterialID      kernel.UUID
	Quantity        int
	DeliveryType    order.DeliveryType
	DeliveryAddress string
	DeliveryPhone   string
}

// CreateOrderCommand represents a student placing an order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), studentID, []OrderLine{
//	    {MaterialID: courseID, Quantity: 2, DeliveryType: order.DeliveryTypePickup},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	studentID kernel.UUID
	lines     []OrderLine
	delivery  order.Delivery

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates ids, quantities and the delivery preference
// before anything touches storage.
func NewCreateOrderCommand(orderID, studentID kernel.UUID, lines []OrderLine) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStudentID(studentID),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) StudentID() kernel.UUID {
	return c.studentID
}

func (c CreateOrderCommand) Lines() []OrderLine {
	lines := make([]OrderLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Delivery is the preference of the first line.
func (c CreateOrderCommand) Delivery() order.Delivery {
	return c.delivery
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setStudentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("student id", err)
	}
	c.studentID = id
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var lineErrs []error
	for i, line := range lines {
		if err := line.MaterialID.Validate(); err != nil {
			lineErrs = append(lineErrs, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].material id", i), err))
		}
		if line.Quantity <= 0 {
			lineErrs = append(lineErrs, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i), fmt.Errorf("%d is not greater than 0", line.Quantity)))
		}
	}

	first := lines[0]
	delivery, err := order.NewDelivery(first.DeliveryType, first.DeliveryAddress, first.DeliveryPhone)
	if err != nil {
		lineErrs = append(lineErrs, err)
	}

	if len(lineErrs) > 0 {
		return errors.Join(lineErrs...)
	}

	c.lines = make([]OrderLine, len(lines))
	copy(c.lines, lines)
	c.delivery = delivery
	return nil
}
