package http

import (
	"net/http"

	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/application/usecases/queries"
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders. The caller is the student.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	lines := make([]commands.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		materialID, err := kernel.UUIDFromString(item.MaterialID)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("material_id", err)
		}
		lines = append(lines, commands.OrderLine{
			MaterialID:      materialID,
			Quantity:        item.Quantity,
			DeliveryType:    order.DeliveryType(item.DeliveryType),
			DeliveryAddress: item.DeliveryAddress,
			DeliveryPhone:   item.DeliveryPhone,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), callerID(c), lines)
	if err != nil {
		return err
	}

	created, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newOrderResponse(created))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID, callerID(c))
	if err != nil {
		return err
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newOrderViewResponse(view))
}

// GetDeliveryStatus handles GET /api/v1/orders/:id/delivery-status.
func (s *Server) GetDeliveryStatus(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetDeliveryStatusQuery(orderID, callerID(c))
	if err != nil {
		return err
	}

	status, err := s.handlers.GetDeliveryStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DeliveryStatusResponse{
		OrderID:             status.OrderID.String(),
		Status:              status.Status,
		DeliveryType:        status.DeliveryType,
		TrackingID:          optional(status.TrackingID),
		Shipment:            status.Shipment,
		ShipmentUnavailable: status.ShipmentUnavailable,
	})
}
