package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// CanTransition is the single source of truth for the booking state machine.
// pending -> confirmed -> completed, with cancellation allowed from pending
// or confirmed. Cancelled and completed are terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCancelled
	case BookingCancelled, BookingCompleted:
		return false
	default:
		return false
	}
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID              string          `bun:"id,pk" json:"id"`
	BookingNumber   string          `bun:"booking_number,unique,notnull" json:"booking_number"`
	UserID          string          `bun:"user_id,notnull" json:"user_id"`
	TripID          string          `bun:"trip_id,notnull" json:"trip_id"`
	TripDateID      string          `bun:"trip_date_id,notnull" json:"trip_date_id"`
	Status          BookingStatus   `bun:"status,notnull" json:"status"`
	TravelerCount   int             `bun:"traveler_count,notnull" json:"traveler_count"`
	TotalPrice      decimal.Decimal `bun:"total_price,notnull" json:"total_price"`
	SpecialRequests string          `bun:"special_requests,nullzero" json:"special_requests,omitempty"`
	CreatedAt       time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time       `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

type BookingRequest struct {
	TripDateID      string `json:"trip_date_id"`
	TravelerCount   int    `json:"traveler_count"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type BookingResponse struct {
	ID            string          `json:"id"`
	BookingNumber string          `json:"booking_number"`
	TripDateID    string          `json:"trip_date_id"`
	Status        BookingStatus   `json:"status"`
	TravelerCount int             `json:"traveler_count"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}
