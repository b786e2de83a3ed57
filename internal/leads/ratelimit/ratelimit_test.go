package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client backed by miniredis, so no real
// Redis server is needed.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	return client, mr
}

func TestFourthSubmissionWithinHourIsRejected(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewLimiter(client, 3, time.Hour)

	ctx := context.Background()
	phone := "+15551234567"
	now := time.Now()

	for i := 0; i < 3; i++ {
		exceeded, err := limiter.Exceeded(ctx, phone, now)
		require.NoError(t, err)
		assert.False(t, exceeded, "submission %d should still be allowed", i+1)
		require.NoError(t, limiter.Record(ctx, phone, now.Add(time.Duration(i)*time.Minute)))
	}

	exceeded, err := limiter.Exceeded(ctx, phone, now.Add(5*time.Minute))
	require.NoError(t, err)
	assert.True(t, exceeded, "the 4th submission within the hour must be rejected")
}

func TestWindowSlides(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewLimiter(client, 3, time.Hour)

	ctx := context.Background()
	phone := "+15551234567"
	base := time.Now()

	// Three submissions spread over 50 minutes fill the window.
	for _, offset := range []time.Duration{0, 20 * time.Minute, 50 * time.Minute} {
		require.NoError(t, limiter.Record(ctx, phone, base.Add(offset)))
	}

	exceeded, err := limiter.Exceeded(ctx, phone, base.Add(55*time.Minute))
	require.NoError(t, err)
	assert.True(t, exceeded)

	// 61 minutes after the first entry it has slid out of the window.
	exceeded, err = limiter.Exceeded(ctx, phone, base.Add(61*time.Minute))
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestPhonesAreIndependent(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewLimiter(client, 3, time.Hour)

	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Record(ctx, "+15551234567", now))
	}

	exceeded, err := limiter.Exceeded(ctx, "+442071234567", now)
	require.NoError(t, err)
	assert.False(t, exceeded, "another phone's window must be untouched")
}
