package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-booking/internal/logger"
	"trip-booking/internal/models"
)

func TestWebhookSendDeliversEvent(t *testing.T) {
	var received payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewWebhookSender(server.URL, logger.NewTestLogger())
	event := models.NotificationEvent{
		Kind:             models.NotificationLeadCaptured,
		TripTitle:        "Sahara Expedition",
		ContactName:      "Omar",
		Phone:            "+21261234567",
		PreferredContact: models.ContactWhatsApp,
		OccurredAt:       time.Now(),
	}

	err := sender.Send(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, models.NotificationLeadCaptured, received.Event.Kind)
	assert.Contains(t, received.Text, "Omar")
	assert.Contains(t, received.Text, "Sahara Expedition")
}

func TestWebhookSendBookingCreatedText(t *testing.T) {
	var received payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sender := NewWebhookSender(server.URL, logger.NewTestLogger())
	err := sender.Send(context.Background(), models.NotificationEvent{
		Kind:          models.NotificationBookingCreated,
		TripTitle:     "Iceland Ring Road",
		ContactName:   "Anna",
		Phone:         "+4745123456",
		BookingNumber: "TRV-20260830-1A2B3C",
	})
	require.NoError(t, err)
	assert.Contains(t, received.Text, "TRV-20260830-1A2B3C")
}

func TestWebhookSendNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewWebhookSender(server.URL, logger.NewTestLogger())
	err := sender.Send(context.Background(), models.NotificationEvent{
		Kind: models.NotificationLeadCaptured,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookSendUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	sender := NewWebhookSender(server.URL, logger.NewTestLogger())
	err := sender.Send(context.Background(), models.NotificationEvent{
		Kind: models.NotificationLeadCaptured,
	})
	assert.Error(t, err)
}
