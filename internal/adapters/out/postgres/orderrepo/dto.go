// Package orderrepo persists order aggregates: one row in orders and one row
// per line item in order_items. Line items are written once with the order and
// never updated.
package orderrepo

import (
	"time"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	StudentID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status          int            `gorm:"type:smallint;not null;index"`
	DeliveryType    string         `gorm:"type:varchar(16);not null"`
	DeliveryAddress string         `gorm:"type:varchar(512)"`
	DeliveryPhone   string         `gorm:"type:varchar(32)"`
	AssignedAdminID *uuid.UUID     `gorm:"type:uuid;index"`
	AppointmentDate *time.Time     `gorm:"type:timestamptz"`
	TrackingID      *string        `gorm:"column:zr_tracking_id;type:varchar(128);uniqueIndex"`
	CreatedAt       time.Time      `gorm:"type:timestamptz;not null;index"`
	Items           []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	// ShipmentClaimedAt is set while a courier call for the order is in flight.
	ShipmentClaimedAt *time.Time `gorm:"type:timestamptz"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line item. Position keeps the order the student listed
// the items in; UnitPrice is the price snapshot taken at creation.
type OrderItemDTO struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_order_item_position"`
	Position   int             `gorm:"type:int;not null;uniqueIndex:idx_order_item_position"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"type:int;not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	state := aggregate.State()

	dto := OrderDTO{
		ID:              state.ID.Bytes(),
		StudentID:       state.StudentID.Bytes(),
		Status:          int(state.Status),
		DeliveryType:    state.Delivery.Type().String(),
		DeliveryAddress: state.Delivery.Address(),
		DeliveryPhone:   state.Delivery.Phone(),
		AppointmentDate: state.AppointmentDate,
		CreatedAt:       state.CreatedAt,
		Items:           make([]OrderItemDTO, 0, len(state.Items)),
	}

	if state.AssignedAdmin != nil {
		raw := state.AssignedAdmin.Bytes()
		dto.AssignedAdminID = &raw
	}
	if state.TrackingID != "" {
		trackingID := state.TrackingID
		dto.TrackingID = &trackingID
	}

	for i, item := range state.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:    dto.ID,
			Position:   i,
			MaterialID: item.MaterialID().Bytes(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
		})
	}

	return dto
}

// toDomain expects dto.Items sorted by Position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	studentID, err := kernel.UUIDFromBytes(dto.StudentID[:])
	if err != nil {
		return nil, err
	}

	var assignedAdmin *kernel.UUID
	if dto.AssignedAdminID != nil {
		adminID, adminErr := kernel.UUIDFromBytes((*dto.AssignedAdminID)[:])
		if adminErr != nil {
			return nil, adminErr
		}
		assignedAdmin = &adminID
	}

	delivery, err := order.NewDelivery(order.DeliveryType(dto.DeliveryType), dto.DeliveryAddress, dto.DeliveryPhone)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		materialID, idErr := kernel.UUIDFromBytes(itemDTO.MaterialID[:])
		if idErr != nil {
			return nil, idErr
		}
		item, itemErr := order.NewItem(materialID, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var trackingID string
	if dto.TrackingID != nil {
		trackingID = *dto.TrackingID
	}

	return order.RestoreOrder(order.State{
		ID:              id,
		StudentID:       studentID,
		Items:           items,
		Delivery:        delivery,
		Status:          order.Status(dto.Status),
		AssignedAdmin:   assignedAdmin,
		AppointmentDate: dto.AppointmentDate,
		TrackingID:      trackingID,
		CreatedAt:       dto.CreatedAt,
	})
}
