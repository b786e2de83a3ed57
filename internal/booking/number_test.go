package booking_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trip-booking/internal/booking"
)

func TestNewBookingNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	number := booking.NewBookingNumber(now)
	assert.Regexp(t, `^TRV-20260830-[0-9A-F]{6}$`, number)
}

func TestNewBookingNumberConcurrentUniqueness(t *testing.T) {
	const n = 100

	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			number := booking.NewBookingNumber(time.Now())
			mu.Lock()
			seen[number] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n, "concurrently generated numbers must all be distinct")
}
