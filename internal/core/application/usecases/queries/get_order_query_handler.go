package queries

import (
	"context"
	"database/sql"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/services"
	"lectio/internal/pkg/errs"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db   *gorm.DB
	gate services.AccessGate
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, gate: services.NewAccessGate()}
}

// Handle checks the caller before returning anything. A caller who may not
// read the order gets *errs.UnauthorizedError even if the order exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	caller, err := loadCaller(ctx, h.db, query.CallerID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err := h.gate.Authorize(caller, services.AnyRole...); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := h.readOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if err := h.gate.AuthorizeOwnership(caller, resp.StudentID); err != nil {
		return GetOrderQueryResponse{}, err
	}

	items, err := h.readItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Items = items
	for _, item := range items {
		resp.Total = resp.Total.Add(item.Subtotal)
	}

	return resp, nil
}

func (h GetOrderQueryHandler) readOrder(ctx context.Context, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	var (
		resp            GetOrderQueryResponse
		studentID       uuid.UUID
		status          int
		address, phone  sql.NullString
		adminID         uuid.NullUUID
		appointmentDate sql.NullTime
		trackingID      sql.NullString
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			student_id,
			status,
			delivery_type,
			delivery_address,
			delivery_phone,
			assigned_admin_id,
			appointment_date,
			zr_tracking_id,
			created_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()
	err := row.Scan(
		&studentID,
		&status,
		&resp.DeliveryType,
		&address,
		&phone,
		&adminID,
		&appointmentDate,
		&trackingID,
		&resp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return GetOrderQueryResponse{}, errors.Wrap(err, "read order")
	}

	resp.ID = orderID
	resp.StudentID, err = kernel.UUIDFromBytes(studentID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Status = order.Status(status).String()
	resp.DeliveryAddress = address.String
	resp.DeliveryPhone = phone.String
	resp.TrackingID = trackingID.String

	if adminID.Valid {
		admin, adminErr := kernel.UUIDFromBytes(adminID.UUID[:])
		if adminErr != nil {
			return GetOrderQueryResponse{}, adminErr
		}
		resp.AssignedAdminID = &admin
	}
	if appointmentDate.Valid {
		date := appointmentDate.Time
		resp.AppointmentDate = &date
	}

	return resp, nil
}

func (h GetOrderQueryHandler) readItems(ctx context.Context, orderID kernel.UUID) ([]GetOrderQueryItem, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.material_id,
			COALESCE(m.title, ''),
			i.quantity,
			i.unit_price
		FROM order_items i
		LEFT JOIN materials m ON m.id = i.material_id
		WHERE i.order_id = ?
		ORDER BY i.position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, errors.Wrap(err, "read order items")
	}
	defer rows.Close()

	items := make([]GetOrderQueryItem, 0)
	for rows.Next() {
		var (
			item       GetOrderQueryItem
			materialID uuid.UUID
			unitPrice  decimal.Decimal
		)
		if err := rows.Scan(&materialID, &item.Title, &item.Quantity, &unitPrice); err != nil {
			return nil, err
		}

		item.MaterialID, err = kernel.UUIDFromBytes(materialID[:])
		if err != nil {
			return nil, err
		}
		item.UnitPrice = unitPrice
		item.Subtotal = unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

