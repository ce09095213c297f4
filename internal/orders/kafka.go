package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

// EventOrderPlaced is the event type published for every placed order.
const EventOrderPlaced = "order_placed"

// PlacedEvent is the message value written to the order topic.
type PlacedEvent struct {
	Type     string      `json:"type"`
	Order    model.Order `json:"order"`
	PlacedAt time.Time   `json:"placed_at"`
}

// messageWriter abstracts kafka.Writer for tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher places orders by publishing them to a Kafka topic keyed by
// order id.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaPublisher creates a synchronous writer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		now: time.Now,
	}
}

// NewKafkaPublisherWith is only for tests to inject a fake writer.
func NewKafkaPublisherWith(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w, now: time.Now}
}

func (k *KafkaPublisher) Place(ctx context.Context, o model.Order) error {
	b, err := json.Marshal(PlacedEvent{Type: EventOrderPlaced, Order: o, PlacedAt: k.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(o.ID), Value: b}); err != nil {
		return fmt.Errorf("publish order %s: %w", o.ID, err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error { return k.writer.Close() }
