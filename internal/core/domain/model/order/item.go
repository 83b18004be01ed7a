package order

import (
	"errors"
	"fmt"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is one order line. UnitPrice is the catalogue price at the moment the
// order was placed; later catalogue changes do not affect it.
type Item struct {
	materialID kernel.UUID
	quantity   int
	unitPrice  decimal.Decimal
}

func NewItem(materialID kernel.UUID, quantity int, unitPrice decimal.Decimal) (Item, error) {
	item := Item{}
	if err := errors.Join(
		item.setMaterialID(materialID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (i Item) MaterialID() kernel.UUID {
	return i.materialID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// Subtotal is UnitPrice × Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *Item) setMaterialID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.materialID = id
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price is invalid", fmt.Errorf("%s is negative", price))
	}
	i.unitPrice = price
	return nil
}
