package commands

import (
	"context"
	"errors"
	"time"

	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/model/shipment"
	"lectio/internal/core/ports"
	"lectio/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// DefaultCourierTimeout bounds every courier call made by ShipmentDispatcher.
const DefaultCourierTimeout = 30 * time.Second

// ErrShipmentInProgress is returned by Ship when another caller holds the
// shipment claim on the order or the order no longer awaits a shipment.
var ErrShipmentInProgress = errors.New("shipment already in progress")

// ShipmentDispatcherConfig tunes the courier hand-off.
type ShipmentDispatcherConfig struct {
	// RegionCode is the courier's code for the shipping region; empty means
	// shipment.DefaultRegionCode.
	RegionCode string

	// Timeout bounds each courier call; zero means DefaultCourierTimeout.
	Timeout time.Duration
}

// ShipmentDispatcher hands Ready home delivery orders to the courier. It runs
// outside any transaction: the order is already committed as Ready, and only
// a successful courier answer advances it to OutForDelivery.
type ShipmentDispatcher struct {
	uowFactory OrderUoWFactory
	courier    ports.CourierClient
	publisher  ports.OrderEventPublisher
	logger     *zap.Logger
	cfg        ShipmentDispatcherConfig

	failures metric.Int64Counter
	shipped  metric.Int64Counter
}

func NewShipmentDispatcher(
	uowFactory OrderUoWFactory,
	courier ports.CourierClient,
	publisher ports.OrderEventPublisher,
	meter metric.Meter,
	logger *zap.Logger,
	cfg ShipmentDispatcherConfig,
) (*ShipmentDispatcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCourierTimeout
	}

	failures, err := meter.Int64Counter("lectio.courier.failures",
		metric.WithDescription("Courier calls that failed or answered with a non-success status"))
	if err != nil {
		return nil, err
	}
	shipped, err := meter.Int64Counter("lectio.shipments.created",
		metric.WithDescription("Courier shipments created and recorded on their order"))
	if err != nil {
		return nil, err
	}

	return &ShipmentDispatcher{
		uowFactory: uowFactory,
		courier:    courier,
		publisher:  publisher,
		logger:     logger.Named("shipment_dispatcher"),
		cfg:        cfg,
		failures:   failures,
		shipped:    shipped,
	}, nil
}

// Ship creates the courier shipment for o and records the tracking id. Orders
// that do not need a shipment are left alone.
//
// Only the caller that claims the order calls the courier; the others get
// ErrShipmentInProgress. A courier failure is logged, counted and returned as
// *errs.CourierFailureError; o stays Ready without a tracking id and the claim
// is released. Any other error means the shipment exists at the courier but
// could not be recorded.
func (d *ShipmentDispatcher) Ship(ctx context.Context, o *order.Order) error {
	if !o.NeedsShipment() {
		return nil
	}

	logger := d.logger.With(zap.Stringer("order_id", o.ID()))
	uow := d.uowFactory.Create()

	student, err := uow.UserRepository().Get(ctx, o.StudentID())
	if err != nil {
		logger.Warn("student not loaded, shipping with fallback recipient", zap.Error(err))
		student = nil
	}

	req, err := shipment.NewRequest(o, student, time.Now(), d.cfg.RegionCode)
	if err != nil {
		return err
	}

	// The claim is held until it goes stale, twice the courier timeout.
	orders := uow.OrderRepository()
	now := time.Now()
	claimed, err := orders.ClaimShipment(ctx, o.ID(), now, now.Add(-2*d.cfg.Timeout))
	if err != nil {
		return err
	}
	if !claimed {
		logger.Info("shipment already claimed, skipping courier call")
		return ErrShipmentInProgress
	}

	courierCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	trackingID, err := d.courier.CreateShipment(courierCtx, req)
	if err != nil {
		d.countFailure(ctx, "create_shipment")
		logger.Warn("courier shipment failed, order stays ready",
			zap.String("tracking_ref", req.TrackingRef),
			zap.Error(err),
		)
		if releaseErr := orders.ReleaseShipment(ctx, o.ID()); releaseErr != nil {
			logger.Warn("shipment claim not released", zap.Error(releaseErr))
		}
		if !errors.Is(err, errs.ErrCourierFailure) {
			err = errs.NewCourierFailureErrorWithCause("create shipment", err)
		}
		return err
	}

	if err = d.attach(ctx, uow, o, trackingID); err != nil {
		logger.Error("courier shipment created but not recorded",
			zap.String("tracking_id", trackingID),
			zap.Error(err),
		)
		return err
	}
	d.shipped.Add(ctx, 1)
	logger.Info("order out for delivery", zap.String("tracking_id", trackingID))

	if err = d.courier.MarkReady(courierCtx, []string{trackingID}); err != nil {
		d.countFailure(ctx, "mark_ready")
		logger.Warn("courier readiness signal failed",
			zap.String("tracking_id", trackingID),
			zap.Error(err),
		)
	}

	publishEvents(ctx, d.publisher, d.logger, o)
	return nil
}

func (d *ShipmentDispatcher) attach(ctx context.Context, uow OrderUoW, o *order.Order, trackingID string) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := o.AttachShipment(trackingID); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, o, order.Ready); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (d *ShipmentDispatcher) countFailure(ctx context.Context, operation string) {
	d.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
