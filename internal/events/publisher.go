package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReservationEvent is published after every successful reservation
// creation or status transition so downstream consumers (dashboards,
// reporting) can follow the lifecycle without polling the database.
type ReservationEvent struct {
	Type     string    `json:"type"` // created, confirm, check_in, check_out, cancel
	Code     string    `json:"code"`
	RoomCode string    `json:"room_code"`
	Status   string    `json:"status"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	At       time.Time `json:"at"`
}

// Publisher publishes reservation lifecycle events. Publishing is best
// effort: failures are logged by the caller and never fail the
// operation that triggered the event.
type Publisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
	Close() error
}

// KafkaPublisher writes reservation events to a Kafka topic
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish writes a single event keyed by the reservation code
func (p *KafkaPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Code),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
