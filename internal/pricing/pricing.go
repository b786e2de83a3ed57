// Package pricing derives booking totals. Pure functions, decimal
// arithmetic only; binary floats drift on currency sums.
package pricing

import (
	"github.com/shopspring/decimal"

	"trip-booking/internal/models"
)

// PricePerTraveler returns the effective seat price for a departure: the
// trip date's own price when set, otherwise the parent trip's base price.
func PricePerTraveler(tripDate models.TripDate, trip models.Trip) decimal.Decimal {
	if tripDate.Price.Valid {
		return tripDate.Price.Decimal
	}
	return trip.BasePrice
}

// Total computes the booking total for the given traveler count.
func Total(tripDate models.TripDate, trip models.Trip, travelerCount int) decimal.Decimal {
	return PricePerTraveler(tripDate, trip).Mul(decimal.NewFromInt(int64(travelerCount)))
}
