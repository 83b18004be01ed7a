package orderrepo

import (
	"context"
	"time"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/pkg/errs"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order and its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.NewValueIsInvalidErrorWithCause("order id", errors.Wrapf(err, "order %s already exists", aggregate.ID()))
		}
		return errors.Wrap(err, "insert order")
	}

	return nil
}

// Update writes the mutable columns only if the stored status still equals
// expected. Line items are never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(expected)).
		Select("Status", "AssignedAdminID", "AppointmentDate", "TrackingID").
		Updates(&dto)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.NewValueIsInvalidErrorWithCause("tracking id", result.Error)
		}
		return errors.Wrap(result.Error, "update order")
	}

	if result.RowsAffected == 0 {
		return r.rejectUpdate(ctx, aggregate.ID(), expected)
	}

	return nil
}

// rejectUpdate tells a missing order from one whose status moved on.
func (r *GormOrderRepository) rejectUpdate(ctx context.Context, id kernel.UUID, expected order.Status) error {
	var current OrderDTO
	err := r.db.WithContext(ctx).Select("status").First(&current, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return errors.Wrap(err, "read order status")
	}

	return errs.NewTransitionRejectedErrorWithCause(
		"update", order.Status(current.Status).String(), expected.String(),
		errors.New("order was changed concurrently"),
	)
}

// UpdateAssignedAdmin writes only the assigned admin, so a concurrent status
// change does not reject it.
func (r *GormOrderRepository) UpdateAssignedAdmin(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Update("assigned_admin_id", dto.AssignedAdminID)
	if result.Error != nil {
		return errors.Wrap(result.Error, "update assigned admin")
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	return nil
}

func (r *GormOrderRepository) ClaimShipment(ctx context.Context, id kernel.UUID, claimedAt, staleBefore time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND delivery_type = ? AND zr_tracking_id IS NULL", id.Bytes(),
			int(order.Ready), order.DeliveryTypeDelivery.String()).
		Where("shipment_claimed_at IS NULL OR shipment_claimed_at < ?", staleBefore).
		Update("shipment_claimed_at", claimedAt)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "claim shipment")
	}

	return result.RowsAffected == 1, nil
}

func (r *GormOrderRepository) ReleaseShipment(ctx context.Context, id kernel.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Update("shipment_claimed_at", gorm.Expr("NULL")).Error
	if err != nil {
		return errors.Wrap(err, "release shipment claim")
	}

	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundErrorWithCause("order", id.String(), err)
		}
		return nil, errors.Wrap(err, "get order")
	}

	return toDomain(dto)
}

// GetAllAwaitingShipment returns Ready home delivery orders without a
// tracking id, oldest first.
func (r *GormOrderRepository) GetAllAwaitingShipment(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("status = ? AND delivery_type = ? AND zr_tracking_id IS NULL",
			int(order.Ready), order.DeliveryTypeDelivery.String()).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, errors.Wrap(err, "list orders awaiting shipment")
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}
