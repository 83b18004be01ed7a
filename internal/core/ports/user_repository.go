package ports

import (
	"context"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/user"
)

// UserRepository resolves accounts for authorization and shipment details.
type UserRepository interface {
	Add(ctx context.Context, aggregate *user.User) error

	// Get returns *errs.ObjectNotFoundError when id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
}
