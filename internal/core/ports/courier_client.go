package ports

import (
	"context"
	"encoding/json"

	"lectio/internal/core/domain/model/shipment"
)

// CourierClient is the delivery courier. Every method may fail with an
// *errs.CourierFailureError on network errors, timeouts or non-2xx answers.
type CourierClient interface {
	// CreateShipment registers the parcel and returns its tracking id.
	CreateShipment(ctx context.Context, request shipment.Request) (string, error)

	// GetStatus returns the courier's status document for the tracking ids,
	// untouched.
	GetStatus(ctx context.Context, trackingIDs []string) (json.RawMessage, error)

	// MarkReady tells the courier the parcels can be collected.
	MarkReady(ctx context.Context, trackingIDs []string) error
}
