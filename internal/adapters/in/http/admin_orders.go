package http

import (
	"net/http"

	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// AcceptOrder handles PATCH /api/v1/admin/orders/:id/accept.
func (s *Server) AcceptOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID, callerID(c))
	if err != nil {
		return err
	}

	accepted, err := s.handlers.AcceptOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newOrderResponse(accepted))
}

// MarkOrderReady handles PATCH /api/v1/admin/orders/:id/ready. A courier
// failure still answers 200 with the order left Ready.
func (s *Server) MarkOrderReady(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req MarkReadyRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewMarkOrderReadyCommand(orderID, callerID(c), req.AppointmentDate)
	if err != nil {
		return err
	}

	ready, err := s.handlers.MarkOrderReady.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newOrderResponse(ready))
}

// MarkOrderDelivered handles PATCH /api/v1/admin/orders/:id/delivered.
func (s *Server) MarkOrderDelivered(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkOrderDeliveredCommand(orderID, callerID(c))
	if err != nil {
		return err
	}

	delivered, err := s.handlers.MarkOrderDelivered.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newOrderResponse(delivered))
}

// ReassignOrderAdmin handles PATCH /api/v1/admin/orders/:id/reassign.
func (s *Server) ReassignOrderAdmin(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req ReassignRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	adminID, err := kernel.UUIDFromString(req.AdminID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("admin_id", err)
	}

	cmd, err := commands.NewReassignOrderAdminCommand(orderID, callerID(c), adminID)
	if err != nil {
		return err
	}

	reassigned, err := s.handlers.ReassignOrderAdmin.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newOrderResponse(reassigned))
}
