package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trip-booking/internal/logger"
	"trip-booking/internal/models"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value []byte) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestDispatcherPublishesToNotificationTopic(t *testing.T) {
	producer := new(MockProducer)
	dispatcher := NewDispatcher(producer, logger.NewTestLogger())

	event := models.NotificationEvent{
		Kind:          models.NotificationBookingCreated,
		TripTitle:     "Iceland Ring Road",
		ContactName:   "Anna",
		Phone:         "+4745123456",
		BookingNumber: "TRV-20260830-1A2B3C",
		OccurredAt:    time.Now(),
	}

	producer.On("Publish", mock.Anything, TopicNotifications, event.Phone, mock.MatchedBy(func(value []byte) bool {
		var decoded models.NotificationEvent
		if err := json.Unmarshal(value, &decoded); err != nil {
			return false
		}
		return decoded.Kind == models.NotificationBookingCreated &&
			decoded.BookingNumber == "TRV-20260830-1A2B3C"
	})).Return(nil)

	err := dispatcher.Publish(context.Background(), event)
	require.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestDispatcherWrapsProducerError(t *testing.T) {
	producer := new(MockProducer)
	dispatcher := NewDispatcher(producer, logger.NewTestLogger())

	producer.On("Publish", mock.Anything, TopicNotifications, mock.Anything, mock.Anything).
		Return(errors.New("broker unreachable"))

	err := dispatcher.Publish(context.Background(), models.NotificationEvent{
		Kind:  models.NotificationLeadCaptured,
		Phone: "+4745123456",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lead_captured")
}
