package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"trip-booking/internal/config"
	"trip-booking/internal/kafka"
	"trip-booking/internal/logger"
	"trip-booking/internal/models"
	"trip-booking/internal/notify"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Notification Worker initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Notify.WebhookURL == "" {
		log.Fatal("CONFIG", "NOTIFY_WEBHOOK_URL not set")
	}

	if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{notify.TopicNotifications}); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, notify.TopicNotifications, cfg.Kafka.GroupID, log)
	defer consumer.Close()

	sender := notify.NewWebhookSender(cfg.Notify.WebhookURL, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := consumer.Start(ctx, func(event models.NotificationEvent) {
		// Best-effort delivery: a failed webhook is logged and dropped so a
		// flaky receiver can never stall the stream.
		if err := sender.Send(ctx, event); err != nil {
			log.Error("NOTIFY", fmt.Sprintf("Failed to deliver %s notification: %v", event.Kind, err))
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("KAFKA", fmt.Sprintf("Consumer stopped: %v", err))
	}

	log.Info("APP", "✅ Notification worker exited gracefully")
}
