// Package ratelimit implements the per-phone sliding window over Redis
// sorted sets: one member per submission, scored by timestamp, trimmed to
// the window on every check.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "lead_rate:"

type Limiter struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
}

func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{Client: client, Limit: limit, Window: window}
}

func (l *Limiter) key(phone string) string {
	return keyPrefix + phone
}

// Exceeded reports whether the phone already has Limit or more submissions
// in the trailing window ending at now. The window slides: expired entries
// are dropped before counting.
func (l *Limiter) Exceeded(ctx context.Context, phone string, now time.Time) (bool, error) {
	key := l.key(phone)
	cutoff := strconv.FormatInt(now.Add(-l.Window).UnixNano(), 10)

	if err := l.Client.ZRemRangeByScore(ctx, key, "0", cutoff).Err(); err != nil {
		return false, err
	}

	count, err := l.Client.ZCard(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count >= int64(l.Limit), nil
}

// Record registers one submission for the phone. The key expires a full
// window after the latest entry, so idle phones cost nothing.
func (l *Limiter) Record(ctx context.Context, phone string, now time.Time) error {
	key := l.key(phone)
	err := l.Client.ZAdd(ctx, key, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	}).Err()
	if err != nil {
		return err
	}
	return l.Client.Expire(ctx, key, l.Window).Err()
}
