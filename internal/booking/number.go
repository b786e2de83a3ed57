package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const bookingNumberPrefix = "TRV"

// NewBookingNumber builds a human-readable booking number:
// TRV-20260830-1A2B3C. Six random hex characters keep collisions
// negligible; the unique constraint on bookings.booking_number is what
// actually enforces uniqueness.
func NewBookingNumber(now time.Time) string {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing means the process is in serious trouble;
		// fall back to the clock so we still return something insertable.
		return fmt.Sprintf("%s-%s-%06X", bookingNumberPrefix, now.Format("20060102"), now.UnixNano()%0xFFFFFF)
	}
	return fmt.Sprintf("%s-%s-%s", bookingNumberPrefix, now.Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix)))
}
