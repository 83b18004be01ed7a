package services

import (
	"fmt"
	"strings"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/user"
	"lectio/internal/pkg/errs"
)

var (
	// AnyRole accepts every role; only blocked accounts are turned away.
	AnyRole = []user.Role{user.RoleUser, user.RoleAdmin, user.RoleSuperAdmin}

	// StaffRoles may run the fulfillment workflow.
	StaffRoles = []user.Role{user.RoleAdmin, user.RoleSuperAdmin}
)

// AccessGate decides whether an actor may perform an operation.
//
// Business rules:
//   - A blocked account is always rejected, whatever its roles
//   - The actor must hold at least one of the roles the operation accepts
//   - Reading an order requires the actor to own it unless the actor is staff
//
// Every rejection is an *errs.UnauthorizedError. Its reason is meant for logs;
// callers must not echo it to clients.
//
// Example usage:
//
//	gate := services.NewAccessGate()
//	if err := gate.Authorize(actor, services.StaffRoles...); err != nil {
//	    return err
//	}
type AccessGate struct{}

func NewAccessGate() AccessGate {
	return AccessGate{}
}

// Authorize checks that actor exists, is not blocked and holds one of roles.
func (AccessGate) Authorize(actor *user.User, roles ...user.Role) error {
	if actor == nil || actor.Validate() != nil {
		return errs.NewUnauthorizedError("no authenticated user")
	}
	if actor.IsBlocked() {
		return errs.NewUnauthorizedError(fmt.Sprintf("user %s is blocked", actor.ID()))
	}
	if !actor.HasAnyRole(roles...) {
		return errs.NewUnauthorizedError(fmt.Sprintf("user %s lacks any of roles [%s]", actor.ID(), joinRoles(roles)))
	}
	return nil
}

// AuthorizeOwnership runs Authorize with AnyRole and then requires actor to be
// ownerID, unless actor is staff.
func (g AccessGate) AuthorizeOwnership(actor *user.User, ownerID kernel.UUID) error {
	if err := g.Authorize(actor, AnyRole...); err != nil {
		return err
	}
	if actor.IsStaff() || actor.ID().IsEqual(ownerID) {
		return nil
	}
	return errs.NewUnauthorizedError(fmt.Sprintf("user %s does not own the resource", actor.ID()))
}

func joinRoles(roles []user.Role) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	return strings.Join(names, ", ")
}
