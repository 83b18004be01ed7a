package commands

import (
	"errors"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/errs"
	"lectio/internal/pkg/guard"
)

var ErrReassignOrderAdminCommandIsNotConstructed = errors.New(
	"ReassignOrderAdminCommand must be created via NewReassignOrderAdminCommand constructor",
)

// ReassignOrderAdminCommand hands an order over to another admin. ActorID is
// the admin performing the reassignment, NewAdminID the one receiving it.
type ReassignOrderAdminCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	actorID    kernel.UUID
	newAdminID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReassignOrderAdminCommand(orderID, actorID, newAdminID kernel.UUID) (ReassignOrderAdminCommand, error) {
	cmd := ReassignOrderAdminCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setNewAdminID(newAdminID),
	); err != nil {
		return ReassignOrderAdminCommand{}, err
	}

	return cmd, nil
}

func (c ReassignOrderAdminCommand) Validate() error {
	return c.guard.Validate(ErrReassignOrderAdminCommandIsNotConstructed)
}

func (c ReassignOrderAdminCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReassignOrderAdminCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c ReassignOrderAdminCommand) NewAdminID() kernel.UUID {
	return c.newAdminID
}

func (c *ReassignOrderAdminCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *ReassignOrderAdminCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.actorID = id
	return nil
}

func (c *ReassignOrderAdminCommand) setNewAdminID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("new admin id", err)
	}
	c.newAdminID = id
	return nil
}
