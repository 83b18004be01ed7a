package kafka

import (
	"context"

	"lectio/internal/core/domain/model/order"

	"go.uber.org/zap"
)

// LogPublisher writes events to the log instead of Kafka. It is used when no
// broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("events")}
}

func (p *LogPublisher) Publish(_ context.Context, events ...order.Event) error {
	for _, e := range events {
		msg := newOrderEvent(e)
		p.logger.Info("order event",
			zap.String("type", msg.Type),
			zap.String("order_id", msg.OrderID),
			zap.String("previous_status", msg.PreviousStatus),
			zap.String("status", msg.Status),
			zap.String("zr_tracking_id", msg.TrackingID))
	}
	return nil
}
