package user

import (
	"fmt"

	"lectio/internal/pkg/errs"
)

// Role is a permission level. Values match the strings stored in the users
// table and issued by the auth gateway.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Validate rejects anything outside the three known roles.
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// IsStaff reports whether the role may act on orders it does not own.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
