package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trip-booking/internal/logger"
	"trip-booking/internal/models"
)

// WebhookSender forwards notification events to an external webhook
// (e.g. a Telegram relay for the sales team). Delivery is best-effort:
// failed deliveries are logged and dropped, never retried.
type WebhookSender struct {
	URL    string
	Client *http.Client
	Logger *logger.Logger
}

func NewWebhookSender(url string, log *logger.Logger) *WebhookSender {
	return &WebhookSender{
		URL: url,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		Logger: log,
	}
}

// Send posts the event to the configured webhook URL as JSON.
func (w *WebhookSender) Send(ctx context.Context, event models.NotificationEvent) error {
	body, err := json.Marshal(webhookPayload(event))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	w.Logger.Info("NOTIFY", fmt.Sprintf("Delivered %s notification for %q", event.Kind, event.ContactName))
	return nil
}

type payload struct {
	Text  string                   `json:"text"`
	Event models.NotificationEvent `json:"event"`
}

func webhookPayload(event models.NotificationEvent) payload {
	var text string
	switch event.Kind {
	case models.NotificationBookingCreated:
		text = fmt.Sprintf("New booking %s: %s for %q, phone %s",
			event.BookingNumber, event.ContactName, event.TripTitle, event.Phone)
	case models.NotificationLeadCaptured:
		text = fmt.Sprintf("New lead: %s asked about %q, phone %s (prefers %s)",
			event.ContactName, event.TripTitle, event.Phone, event.PreferredContact)
	default:
		text = fmt.Sprintf("Notification %s for %q", event.Kind, event.TripTitle)
	}
	return payload{Text: text, Event: event}
}
