package postgres

import (
	"context"

	"lectio/internal/adapters/out/postgres/materialrepo"
	"lectio/internal/adapters/out/postgres/orderrepo"
	"lectio/internal/adapters/out/postgres/userrepo"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&userrepo.UserDTO{},
		&materialrepo.MaterialDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
	)
	if err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}
