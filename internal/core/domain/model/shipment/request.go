// Package shipment builds the parcel description handed to the delivery
// courier for a home delivery order.
package shipment

import (
	"errors"
	"fmt"
	"time"

	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/model/user"
	"lectio/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	DefaultRecipientName = "Client"
	DefaultPhone         = "0000000000"
	DefaultAddress       = "Adresse non fournie"
	DefaultRegionCode    = "31"
	ProductLabel         = "Matériel d'impression"

	trackingRefLayout = "200601021504"
)

var ErrNotShippable = errors.New("order does not need a shipment")

// Request is a courier shipment for one order.
type Request struct {
	TrackingRef     string
	RecipientName   string
	Phone           string
	Address         string
	RegionCode      string
	Commune         string
	TotalAmount     decimal.Decimal
	Note            string
	ProductLabel    string
	ExternalOrderID string
}

// NewRequest describes the parcel for o, which must need a shipment (see
// order.Order.NeedsShipment). recipient is the student who placed the order and
// may be nil when the account could not be loaded. The tracking reference is
// ORDER_<order id>_<yyyyMMddHHmm> at now.
func NewRequest(o *order.Order, recipient *user.User, now time.Time, regionCode string) (Request, error) {
	if err := o.Validate(); err != nil {
		return Request{}, err
	}
	if !o.NeedsShipment() {
		return Request{}, errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("%w: %s order in %s status", ErrNotShippable, o.DeliveryType(), o.Status()))
	}

	req := Request{
		TrackingRef:     TrackingRef(o, now),
		RecipientName:   DefaultRecipientName,
		Phone:           firstNonEmpty(o.Delivery().Phone(), DefaultPhone),
		Address:         firstNonEmpty(o.Delivery().Address(), DefaultAddress),
		RegionCode:      firstNonEmpty(regionCode, DefaultRegionCode),
		TotalAmount:     o.Total(),
		Note:            fmt.Sprintf("Commande Lectio #%s", o.ID()),
		ProductLabel:    ProductLabel,
		ExternalOrderID: o.ID().String(),
	}

	if recipient != nil {
		req.RecipientName = firstNonEmpty(recipient.FullName(), DefaultRecipientName)
		req.Phone = firstNonEmpty(o.Delivery().Phone(), recipient.Phone(), DefaultPhone)
		req.Commune = recipient.Region()
	}

	return req, nil
}

// TrackingRef derives the courier reference of o at now.
func TrackingRef(o *order.Order, now time.Time) string {
	return fmt.Sprintf("ORDER_%s_%s", o.ID(), now.Format(trackingRefLayout))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
