// Package events emits booking lifecycle events for downstream consumers.
// Publishing is best-effort: a broker failure is logged and never fails the
// booking operation that triggered it.
package events

import (
	"context"
	"time"

	"jusbook/pkg/kafka"
	"jusbook/pkg/logger"
	"jusbook/pkg/model"

	"github.com/google/uuid"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"

	eventSource = "jusbook-assistant"
)

// BookingEvent is the wire payload for booking lifecycle events.
type BookingEvent struct {
	BookingID   string    `json:"booking_id"`
	UserName    string    `json:"user_name"`
	ServiceID   string    `json:"service_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	PublishedAt time.Time `json:"published_at"`
}

type Publisher interface {
	BookingConfirmed(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) BookingConfirmed(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingConfirmed, booking)
}

func (p *kafkaPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCancelled, booking)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(BookingEvent{
			BookingID:   booking.ID,
			UserName:    booking.UserName,
			ServiceID:   booking.ServiceID,
			Date:        booking.Date,
			Time:        booking.Time,
			Status:      booking.Status,
			PublishedAt: time.Now().UTC(),
		}).
		WithEventID(uuid.NewString()).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
		return
	}

	p.log.Debug("Booking event published", "event_type", eventType, "booking_id", booking.ID)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher drops all events; used when Kafka is disabled.
type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) BookingConfirmed(context.Context, *model.Booking) {}
func (noopPublisher) BookingCancelled(context.Context, *model.Booking) {}
func (noopPublisher) Close() error                                     { return nil }
