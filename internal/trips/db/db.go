package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"trip-booking/internal/models"
)

// ErrTripNotFound is returned when the trip does not exist.
var ErrTripNotFound = errors.New("trip not found")

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	var trip models.Trip
	err := d.Bun.NewSelect().
		Model(&trip).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTripNotFound, id)
		}
		return nil, err
	}
	return &trip, nil
}

// GetTripDates fetches a trip's departures ordered by start date.
func (d *DB) GetTripDates(ctx context.Context, tripID string) ([]models.TripDate, error) {
	var tripDates []models.TripDate
	err := d.Bun.NewSelect().
		Model(&tripDates).
		Where("trip_id = ?", tripID).
		Order("start_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if tripDates == nil {
		tripDates = []models.TripDate{}
	}
	return tripDates, nil
}
