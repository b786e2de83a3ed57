package models

import "time"

type NotificationKind string

const (
	NotificationBookingCreated NotificationKind = "booking_created"
	NotificationLeadCaptured   NotificationKind = "lead_captured"
)

// NotificationEvent is the flat payload handed to the notification
// dispatcher. Delivery is best-effort; the booking and lead flows never
// wait on it.
type NotificationEvent struct {
	Kind             NotificationKind `json:"kind"`
	TripTitle        string           `json:"trip_title"`
	ContactName      string           `json:"contact_name"`
	Phone            string           `json:"phone"`
	PreferredContact ContactChannel   `json:"preferred_contact,omitempty"`
	BookingNumber    string           `json:"booking_number,omitempty"`
	OccurredAt       time.Time        `json:"occurred_at"`
}
