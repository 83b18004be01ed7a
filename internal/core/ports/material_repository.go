package ports

import (
	"context"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/material"
)

// MaterialRepository reads the catalogue. The fulfillment core never changes
// materials; Add exists for seeding.
type MaterialRepository interface {
	Add(ctx context.Context, aggregate *material.Material) error

	// Get returns *errs.ObjectNotFoundError when id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*material.Material, error)
}
