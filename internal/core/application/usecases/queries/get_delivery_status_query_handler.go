package queries

import (
	"context"
	"database/sql"
	"time"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/services"
	"lectio/internal/core/ports"
	"lectio/internal/pkg/errs"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultStatusTimeout bounds the courier status lookup.
const DefaultStatusTimeout = 30 * time.Second

type GetDeliveryStatusQueryHandler struct {
	db      *gorm.DB
	courier ports.CourierClient
	gate    services.AccessGate
	logger  *zap.Logger
	timeout time.Duration
}

// NewGetDeliveryStatusQueryHandler builds the handler. A non-positive timeout
// means DefaultStatusTimeout.
func NewGetDeliveryStatusQueryHandler(
	db *gorm.DB,
	courier ports.CourierClient,
	logger *zap.Logger,
	timeout time.Duration,
) GetDeliveryStatusQueryHandler {
	if timeout <= 0 {
		timeout = DefaultStatusTimeout
	}
	return GetDeliveryStatusQueryHandler{
		db:      db,
		courier: courier,
		gate:    services.NewAccessGate(),
		logger:  logger.Named("delivery_status"),
		timeout: timeout,
	}
}

// Handle never fails because of the courier: when the lookup fails the local
// status is returned with ShipmentUnavailable set.
func (h GetDeliveryStatusQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryStatusQuery,
) (GetDeliveryStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	caller, err := loadCaller(ctx, h.db, query.CallerID())
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}
	if err := h.gate.Authorize(caller, services.AnyRole...); err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	var (
		studentID  uuid.UUID
		status     int
		resp       GetDeliveryStatusQueryResponse
		trackingID sql.NullString
	)
	row := h.db.WithContext(ctx).Raw(`
		SELECT student_id, status, delivery_type, zr_tracking_id
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()
	if err := row.Scan(&studentID, &status, &resp.DeliveryType, &trackingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetDeliveryStatusQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetDeliveryStatusQueryResponse{}, errors.Wrap(err, "read order status")
	}

	owner, err := kernel.UUIDFromBytes(studentID[:])
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}
	if err := h.gate.AuthorizeOwnership(caller, owner); err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	resp.OrderID = query.OrderID()
	resp.Status = order.Status(status).String()
	resp.TrackingID = trackingID.String

	if resp.TrackingID == "" {
		return resp, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	shipment, err := h.courier.GetStatus(callCtx, []string{resp.TrackingID})
	if err != nil {
		h.logger.Warn("courier status lookup failed",
			zap.Stringer("order_id", resp.OrderID),
			zap.String("tracking_id", resp.TrackingID),
			zap.Error(err))
		resp.ShipmentUnavailable = true
		return resp, nil
	}
	resp.Shipment = shipment

	return resp, nil
}
