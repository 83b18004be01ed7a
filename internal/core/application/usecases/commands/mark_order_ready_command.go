package commands

import (
	"errors"
	"time"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/errs"
	"lectio/internal/pkg/guard"
)

var ErrMarkOrderReadyCommandIsNotConstructed = errors.New(
	"MarkOrderReadyCommand must be created via NewMarkOrderReadyCommand constructor",
)

// MarkOrderReadyCommand represents an admin finishing the print run and
// setting the appointment for hand-over.
type MarkOrderReadyCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	adminID         kernel.UUID
	appointmentDate time.Time

	guard guard.ConstructorGuard
}

func NewMarkOrderReadyCommand(orderID, adminID kernel.UUID, appointmentDate time.Time) (MarkOrderReadyCommand, error) {
	cmd := MarkOrderReadyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAdminID(adminID),
		cmd.setAppointmentDate(appointmentDate),
	); err != nil {
		return MarkOrderReadyCommand{}, err
	}

	return cmd, nil
}

func (c MarkOrderReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderReadyCommandIsNotConstructed)
}

func (c MarkOrderReadyCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c MarkOrderReadyCommand) AdminID() kernel.UUID {
	return c.adminID
}

func (c MarkOrderReadyCommand) AppointmentDate() time.Time {
	return c.appointmentDate
}

func (c *MarkOrderReadyCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *MarkOrderReadyCommand) setAdminID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.adminID = id
	return nil
}

func (c *MarkOrderReadyCommand) setAppointmentDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("appointment date")
	}
	c.appointmentDate = date
	return nil
}
