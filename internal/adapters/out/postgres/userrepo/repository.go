// Package userrepo resolves accounts for authorization and for the recipient
// details sent to the courier.
package userrepo

import (
	"context"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/user"
	"lectio/internal/pkg/errs"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errs.NewValueIsInvalidErrorWithCause("user", errors.Wrapf(err, "user %s or email %s already exists", aggregate.ID(), aggregate.Email()))
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, errors.Wrap(err, "get user")
	}

	return toDomain(dto)
}
