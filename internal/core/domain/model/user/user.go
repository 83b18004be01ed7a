package user

import (
	"errors"
	"slices"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/errs"
	"lectio/internal/pkg/guard"
)

var ErrUserIsNotConstructed = errors.New("User must be created via NewUser or RestoreUser constructor")

// User is an account as seen by the fulfillment core. Authentication data
// (password hashes, tokens) lives outside this service.
type User struct {
	id       kernel.UUID
	email    string
	fullName string
	phone    string
	region   string
	roles    []Role
	blocked  bool

	guard guard.ConstructorGuard
}

// NewUser creates an unblocked account. A user without explicit roles gets
// RoleUser.
func NewUser(id kernel.UUID, email, fullName, phone, region string, roles ...Role) (*User, error) {
	if len(roles) == 0 {
		roles = []Role{RoleUser}
	}
	return RestoreUser(id, email, fullName, phone, region, roles, false)
}

// RestoreUser rebuilds a user from persistence.
func RestoreUser(
	id kernel.UUID,
	email, fullName, phone, region string,
	roles []Role,
	blocked bool,
) (*User, error) {
	u := &User{
		email:    email,
		fullName: fullName,
		phone:    phone,
		region:   region,
		blocked:  blocked,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setEmail(email),
		u.setRoles(roles),
	); err != nil {
		return nil, err
	}

	return u, nil
}

func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Email() string {
	return u.email
}

func (u *User) FullName() string {
	return u.fullName
}

func (u *User) Phone() string {
	return u.phone
}

// Region is the student's commune; the courier uses it to route shipments.
func (u *User) Region() string {
	return u.region
}

func (u *User) Roles() []Role {
	return slices.Clone(u.roles)
}

func (u *User) IsBlocked() bool {
	return u.blocked
}

// HasAnyRole reports whether the user holds at least one of roles.
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if slices.Contains(u.roles, r) {
			return true
		}
	}
	return false
}

// IsStaff reports whether the user holds ADMIN or SUPER_ADMIN.
func (u *User) IsStaff() bool {
	return slices.ContainsFunc(u.roles, Role.IsStaff)
}

func (u *User) Block() {
	u.blocked = true
}

func (u *User) Unblock() {
	u.blocked = false
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	u.email = email
	return nil
}

func (u *User) setRoles(roles []Role) error {
	if len(roles) == 0 {
		return errs.NewValueIsRequiredError("roles")
	}
	validated := make([]Role, 0, len(roles))
	for _, r := range roles {
		if err := r.Validate(); err != nil {
			return err
		}
		if !slices.Contains(validated, r) {
			validated = append(validated, r)
		}
	}
	u.roles = validated
	return nil
}
