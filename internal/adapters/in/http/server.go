// Package http exposes order fulfillment over REST with echo. Callers are
// authenticated upstream; the gateway passes the caller's user id in the
// X-User-ID header.
package http

import (
	"context"
	"net/http"

	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/application/usecases/queries"
	"lectio/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	AcceptOrderHandler interface {
		Handle(ctx context.Context, cmd commands.AcceptOrderCommand) (*order.Order, error)
	}
	MarkOrderReadyHandler interface {
		Handle(ctx context.Context, cmd commands.MarkOrderReadyCommand) (*order.Order, error)
	}
	MarkOrderDeliveredHandler interface {
		Handle(ctx context.Context, cmd commands.MarkOrderDeliveredCommand) (*order.Order, error)
	}
	ReassignOrderAdminHandler interface {
		Handle(ctx context.Context, cmd commands.ReassignOrderAdminCommand) (*order.Order, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	GetDeliveryStatusHandler interface {
		Handle(ctx context.Context, query queries.GetDeliveryStatusQuery) (queries.GetDeliveryStatusQueryResponse, error)
	}
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder        CreateOrderHandler
	AcceptOrder        AcceptOrderHandler
	MarkOrderReady     MarkOrderReadyHandler
	MarkOrderDelivered MarkOrderDeliveredHandler
	ReassignOrderAdmin ReassignOrderAdminHandler
	GetOrder           GetOrderHandler
	GetDeliveryStatus  GetDeliveryStatusHandler

	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	logger   *zap.Logger
}

func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger.Named("http"),
	}
}

// Register mounts every route on e and installs the error handler. API
// requests are checked against openapi.yaml, which /swagger/ serves.
func (s *Server) Register(e *echo.Echo) {
	e.HTTPErrorHandler = s.handleError

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if s.handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.handlers.Metrics))
	}

	api := e.Group("/api/v1", CallerIdentity(), RequestValidator())
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/delivery-status", s.GetDeliveryStatus)

	admin := api.Group("/admin/orders")
	admin.PATCH("/:id/accept", s.AcceptOrder)
	admin.PATCH("/:id/ready", s.MarkOrderReady)
	admin.PATCH("/:id/delivered", s.MarkOrderDelivered)
	admin.PATCH("/:id/reassign", s.ReassignOrderAdmin)
}
