package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"trip-booking/internal/logger"
	"trip-booking/internal/models"
)

// TopicNotifications carries booking_created and lead_captured events.
const TopicNotifications = "travel.notifications"

type producer interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

// Dispatcher publishes notification events to Kafka. Callers treat
// publishing as fire-and-forget; a failed publish is logged by the caller
// and never fails the originating operation.
type Dispatcher struct {
	Producer producer
	Topic    string
	Logger   *logger.Logger
}

func NewDispatcher(p producer, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		Producer: p,
		Topic:    TopicNotifications,
		Logger:   log,
	}
}

// Discard drops every event. Used when Kafka is disabled.
type Discard struct {
	Logger *logger.Logger
}

func (d *Discard) Publish(ctx context.Context, event models.NotificationEvent) error {
	d.Logger.Warn("NOTIFY", fmt.Sprintf("Kafka disabled, dropping %s event", event.Kind))
	return nil
}

func (d *Dispatcher) Publish(ctx context.Context, event models.NotificationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Kind, err)
	}

	// Key by phone so events for the same contact stay ordered.
	if err := d.Producer.Publish(ctx, d.Topic, event.Phone, value); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Kind, err)
	}

	d.Logger.LogKafka("PUBLISH", d.Topic, fmt.Sprintf("%s event for %q", event.Kind, event.ContactName))
	return nil
}
