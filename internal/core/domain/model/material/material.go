// Package material models the printable course materials students order.
// Orders read a material once, at creation, to snapshot its price.
package material

import (
	"errors"
	"fmt"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/errs"
	"lectio/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrMaterialIsNotConstructed = errors.New("Material must be created via NewMaterial or RestoreMaterial constructor")

// Type distinguishes lecture handouts from books.
type Type string

const (
	TypePolycopie Type = "polycopie"
	TypeBook      Type = "book"
)

func (t Type) Validate() error {
	if t != TypePolycopie && t != TypeBook {
		return errs.NewValueIsInvalidErrorWithCause("material type is invalid", fmt.Errorf("%q is not a material type", string(t)))
	}
	return nil
}

// Material is a catalogue entry. Price is in dinars.
type Material struct {
	id        kernel.UUID
	title     string
	kind      Type
	price     decimal.Decimal
	available bool

	guard guard.ConstructorGuard
}

// NewMaterial creates an available material.
func NewMaterial(id kernel.UUID, title string, kind Type, price decimal.Decimal) (*Material, error) {
	return RestoreMaterial(id, title, kind, price, true)
}

// RestoreMaterial rebuilds a material from persistence.
func RestoreMaterial(id kernel.UUID, title string, kind Type, price decimal.Decimal, available bool) (*Material, error) {
	m := &Material{
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setTitle(title),
		m.setType(kind),
		m.setPrice(price),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Material) Validate() error {
	if m == nil {
		return ErrMaterialIsNotConstructed
	}
	return m.guard.Validate(ErrMaterialIsNotConstructed)
}

func (m *Material) ID() kernel.UUID {
	return m.id
}

func (m *Material) Title() string {
	return m.title
}

func (m *Material) Type() Type {
	return m.kind
}

func (m *Material) Price() decimal.Decimal {
	return m.price
}

func (m *Material) IsAvailable() bool {
	return m.available
}

func (m *Material) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Material) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	m.title = title
	return nil
}

func (m *Material) setType(kind Type) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	m.kind = kind
	return nil
}

func (m *Material) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price is invalid", fmt.Errorf("%s is negative", price))
	}
	m.price = price
	return nil
}
