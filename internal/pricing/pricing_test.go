package pricing_test

import (
	"testing"

	"trip-booking/internal/models"
	"trip-booking/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalUsesTripDatePrice(t *testing.T) {
	trip := models.Trip{ID: "trip-1", BasePrice: decimal.NewFromInt(500)}
	tripDate := models.TripDate{
		ID:     "td-1",
		TripID: "trip-1",
		Price:  decimal.NewNullDecimal(decimal.RequireFromString("649.99")),
	}

	total := pricing.Total(tripDate, trip, 3)
	assert.True(t, total.Equal(decimal.RequireFromString("1949.97")), "got %s", total)
}

func TestTotalFallsBackToTripBasePrice(t *testing.T) {
	trip := models.Trip{ID: "trip-1", BasePrice: decimal.RequireFromString("450.50")}
	tripDate := models.TripDate{ID: "td-1", TripID: "trip-1"}

	total := pricing.Total(tripDate, trip, 2)
	assert.True(t, total.Equal(decimal.RequireFromString("901.00")), "got %s", total)
}

func TestTotalNoRoundingDrift(t *testing.T) {
	// 0.1 * 3 is the classic binary-float trap; decimals must land exactly.
	trip := models.Trip{ID: "trip-1", BasePrice: decimal.RequireFromString("0.10")}
	tripDate := models.TripDate{ID: "td-1", TripID: "trip-1"}

	total := pricing.Total(tripDate, trip, 3)
	assert.True(t, total.Equal(decimal.RequireFromString("0.30")), "got %s", total)
}
