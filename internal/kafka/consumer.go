package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"trip-booking/internal/logger"
	"trip-booking/internal/models"
)

type Consumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

// NewConsumer creates a Kafka consumer for the given topic and group.
func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, logger: log}
}

// Start consumes notification events until the context is cancelled.
// Messages that fail to decode are logged and skipped.
func (c *Consumer) Start(ctx context.Context, handler func(event models.NotificationEvent)) error {
	c.logger.Info("KAFKA", "Notification consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("KAFKA", fmt.Sprintf("Error reading message: %v", err))
			continue
		}

		var event models.NotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("Failed to unmarshal notification event: %v", err))
			continue
		}

		c.logger.Info("KAFKA", fmt.Sprintf("Received %s event for trip %q", event.Kind, event.TripTitle))
		handler(event)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
