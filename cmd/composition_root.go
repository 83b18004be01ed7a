package cmd

import (
	"lectio/internal/adapters/in/http"
	"lectio/internal/adapters/out/kafka"
	"lectio/internal/adapters/out/postgres"
	"lectio/internal/adapters/out/zrexpress"
	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/application/usecases/queries"
	"lectio/internal/core/ports"
	"lectio/internal/jobs"
	"lectio/internal/pkg/telemetry"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *zap.Logger
	metrics    *telemetry.Metrics
	uowFactory *postgres.GormUnitOfWorkFactory
	courier    ports.CourierClient
	publisher  ports.OrderEventPublisher
	dispatcher *commands.ShipmentDispatcher
	closers    []func() error
}

// NewCompositionRoot connects the outbound adapters. Events are written to
// Kafka when KafkaHost is set and to the log otherwise. Courier and dispatcher
// metrics are recorded on metrics.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, metrics *telemetry.Metrics, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		metrics:    metrics,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		courier: zrexpress.NewClient(zrexpress.Config{
			BaseURL:       cfg.ZRExpressBaseURL,
			Token:         cfg.ZRExpressToken,
			Key:           cfg.ZRExpressKey,
			Timeout:       cfg.CourierTimeout,
			MeterProvider: metrics.MeterProvider(),
		}, logger),
	}

	if cfg.KafkaHost != "" {
		publisher, err := kafka.Dial(cfg.KafkaHost, cfg.KafkaOrderChangedTopic, logger)
		if err != nil {
			return nil, errors.Wrap(err, "connect kafka")
		}
		c.publisher = publisher
		c.closers = append(c.closers, publisher.Close)
	} else {
		logger.Warn("kafka host is not set, order events go to the log")
		c.publisher = kafka.NewLogPublisher(logger)
	}

	dispatcher, err := commands.NewShipmentDispatcher(
		c.orderUoWFactory(),
		c.courier,
		c.publisher,
		metrics.Meter("lectio"),
		logger,
		commands.ShipmentDispatcherConfig{
			RegionCode: cfg.ZRExpressRegionCode,
			Timeout:    cfg.CourierTimeout,
		},
	)
	if err != nil {
		_ = c.Close()
		return nil, errors.Wrap(err, "create shipment dispatcher")
	}
	c.dispatcher = dispatcher

	return c, nil
}

// Close releases the outbound connections.
func (c *CompositionRoot) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateMarkOrderReadyCommandHandler() commands.MarkOrderReadyCommandHandler {
	return commands.NewMarkOrderReadyCommandHandler(c.orderUoWFactory(), c.dispatcher, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateMarkOrderDeliveredCommandHandler() commands.MarkOrderDeliveredCommandHandler {
	return commands.NewMarkOrderDeliveredCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateReassignOrderAdminCommandHandler() commands.ReassignOrderAdminCommandHandler {
	return commands.NewReassignOrderAdminCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRetryPendingShipmentsCommandHandler() commands.RetryPendingShipmentsCommandHandler {
	return commands.NewRetryPendingShipmentsCommandHandler(c.orderUoWFactory(), c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryStatusQueryHandler() queries.GetDeliveryStatusQueryHandler {
	return queries.NewGetDeliveryStatusQueryHandler(c.gormDB, c.courier, c.logger, c.cfg.CourierTimeout)
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(http.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		AcceptOrder:        c.CreateAcceptOrderCommandHandler(),
		MarkOrderReady:     c.CreateMarkOrderReadyCommandHandler(),
		MarkOrderDelivered: c.CreateMarkOrderDeliveredCommandHandler(),
		ReassignOrderAdmin: c.CreateReassignOrderAdminCommandHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetDeliveryStatus:  c.CreateGetDeliveryStatusQueryHandler(),
		Metrics:            c.metrics.Handler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.logger,
		jobs.NewShipmentRetryJob(
			c.CreateRetryPendingShipmentsCommandHandler(),
			c.cfg.ShipmentRetrySchedule,
			c.cfg.ShipmentRetryBatchSize,
			c.logger,
		),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
