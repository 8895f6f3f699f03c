// Package events publishes booking lifecycle events to Kafka for downstream
// consumers (guest email, analytics). Publishing is best-effort: the
// reservation core commits first and never rolls back on a publish failure.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types carried on the booking topic.
const (
	TypeBookingCreated   = "booking_created"
	TypeBookingCancelled = "booking_cancelled"
	TypeCheckedIn        = "booking_checked_in"
	TypeCheckedOut       = "booking_checked_out"
)

// BookingEvent is the wire payload for one lifecycle change.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	HotelID    string    `json:"hotel_id"`
	RoomTypeID string    `json:"room_type_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Units      int       `json:"units"`
	GuestEmail string    `json:"guest_email"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer writes booking events to a single topic, keyed by booking ID so
// one booking's events stay ordered within a partition.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a Kafka producer for the given brokers and topic.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
		topic: topic,
	}
}

// Publish marshals and writes one event.
func (p *Producer) Publish(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: payload,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write booking event to kafka: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
