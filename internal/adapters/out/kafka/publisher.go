// Package kafka publishes order events to a Kafka topic with a sarama
// SyncProducer. Messages are JSON, keyed by order id so every event of one
// order lands on the same partition in order.
package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"lectio/internal/core/domain/model/order"

	"github.com/IBM/sarama"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// OrderEvent is the wire form of order.Event.
type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        string    `json:"order_id"`
	StudentID      string    `json:"student_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	DeliveryType   string    `json:"delivery_type"`
	AssignedAdmin  string    `json:"assigned_admin,omitempty"`
	TrackingID     string    `json:"zr_tracking_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func newOrderEvent(e order.Event) OrderEvent {
	msg := OrderEvent{
		Type:         string(e.Kind),
		OrderID:      e.OrderID.String(),
		StudentID:    e.StudentID.String(),
		Status:       e.Status.String(),
		DeliveryType: e.DeliveryType.String(),
		TrackingID:   e.TrackingID,
		OccurredAt:   e.OccurredAt,
	}
	if e.PreviousStatus != order.Unknown {
		msg.PreviousStatus = e.PreviousStatus.String()
	}
	if e.AssignedAdmin != nil {
		msg.AssignedAdmin = e.AssignedAdmin.String()
	}
	return msg
}

// Publisher implements ports.OrderEventPublisher.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewProducerConfig returns the settings used for the order event producer.
// Return.Successes is required by SyncProducer.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0
	return config
}

// Dial connects to the comma separated brokers.
func Dial(brokers, topic string, logger *zap.Logger) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), NewProducerConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return NewPublisher(producer, topic, logger), nil
}

func NewPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.Named("kafka"),
	}
}

// Publish sends all events in one batch.
func (p *Publisher) Publish(_ context.Context, events ...order.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(newOrderEvent(e))
		if err != nil {
			return errors.Wrap(err, "marshal order event")
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(e.OrderID.String()),
			Value: sarama.ByteEncoder(data),
			Headers: []sarama.RecordHeader{
				{Key: []byte("event-type"), Value: []byte(e.Kind)},
			},
		})
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		return errors.Wrapf(err, "send %d order events to %s", len(msgs), p.topic)
	}

	for _, msg := range msgs {
		p.logger.Debug("order event published",
			zap.String("topic", msg.Topic),
			zap.Int32("partition", msg.Partition),
			zap.Int64("offset", msg.Offset))
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
