package http

import (
	"encoding/json"
	"time"

	"lectio/internal/core/application/usecases/queries"
	"lectio/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	Items []OrderLineRequest `json:"items"`
}

type OrderLineRequest struct {
	MaterialID      string `json:"material_id"`
	Quantity        int    `json:"quantity"`
	DeliveryType    string `json:"delivery_type"`
	DeliveryAddress string `json:"delivery_address"`
	DeliveryPhone   string `json:"delivery_phone"`
}

type MarkReadyRequest struct {
	AppointmentDate time.Time `json:"appointment_date"`
}

type ReassignRequest struct {
	AdminID string `json:"admin_id"`
}

type OrderItemResponse struct {
	MaterialID string          `json:"material_id"`
	Title      string          `json:"title,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	StudentID       string              `json:"student_id"`
	Status          string              `json:"status"`
	DeliveryType    string              `json:"delivery_type"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	DeliveryPhone   string              `json:"delivery_phone,omitempty"`
	AssignedAdmin   *string             `json:"assigned_admin"`
	AppointmentDate *time.Time          `json:"appointment_date"`
	TrackingID      *string             `json:"zr_tracking_id"`
	Total           decimal.Decimal     `json:"total"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []OrderItemResponse `json:"items"`
}

type DeliveryStatusResponse struct {
	OrderID             string          `json:"order_id"`
	Status              string          `json:"status"`
	DeliveryType        string          `json:"delivery_type"`
	TrackingID          *string         `json:"zr_tracking_id"`
	Shipment            json.RawMessage `json:"shipment,omitempty"`
	ShipmentUnavailable bool            `json:"shipment_unavailable"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func newOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID().String(),
		StudentID:       o.StudentID().String(),
		Status:          o.Status().String(),
		DeliveryType:    o.DeliveryType().String(),
		DeliveryAddress: o.Delivery().Address(),
		DeliveryPhone:   o.Delivery().Phone(),
		AppointmentDate: o.AppointmentDate(),
		TrackingID:      optional(o.TrackingID()),
		Total:           o.Total(),
		CreatedAt:       o.CreatedAt(),
		Items:           make([]OrderItemResponse, 0, len(o.Items())),
	}
	if admin := o.AssignedAdmin(); admin != nil {
		resp.AssignedAdmin = optional(admin.String())
	}
	for _, item := range o.Items() {
		resp.Items = append(resp.Items, OrderItemResponse{
			MaterialID: item.MaterialID().String(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
			Subtotal:   item.Subtotal(),
		})
	}
	return resp
}

func newOrderViewResponse(v queries.GetOrderQueryResponse) OrderResponse {
	resp := OrderResponse{
		ID:              v.ID.String(),
		StudentID:       v.StudentID.String(),
		Status:          v.Status,
		DeliveryType:    v.DeliveryType,
		DeliveryAddress: v.DeliveryAddress,
		DeliveryPhone:   v.DeliveryPhone,
		AppointmentDate: v.AppointmentDate,
		TrackingID:      optional(v.TrackingID),
		Total:           v.Total,
		CreatedAt:       v.CreatedAt,
		Items:           make([]OrderItemResponse, 0, len(v.Items)),
	}
	if v.AssignedAdminID != nil {
		resp.AssignedAdmin = optional(v.AssignedAdminID.String())
	}
	for _, item := range v.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			MaterialID: item.MaterialID.String(),
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Subtotal:   item.Subtotal,
		})
	}
	return resp
}
