package db

import (
	"context"
	"database/sql"
	"errors"

	"trip-booking/internal/capacity"
	"trip-booking/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ReserveSpots applies the capacity check and the increment as one
// conditional UPDATE. Concurrent callers race on the WHERE clause, so the
// database decides the winner and spots_booked can never exceed spots_total.
func (d *DB) ReserveSpots(ctx context.Context, tripDateID string, count int) (int, error) {
	var booked int
	err := d.Bun.NewUpdate().
		Model((*models.TripDate)(nil)).
		Set("spots_booked = spots_booked + ?", count).
		Where("id = ?", tripDateID).
		Where("spots_booked + ? <= spots_total", count).
		Returning("spots_booked").
		Scan(ctx, &booked)
	if err == nil {
		return booked, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// The guarded update matched nothing: either the row is missing or the
	// seats ran out. Distinguish so callers can report "sold out" properly.
	exists, err := d.Bun.NewSelect().
		Model((*models.TripDate)(nil)).
		Where("id = ?", tripDateID).
		Exists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, capacity.ErrTripDateNotFound
	}
	return 0, capacity.ErrInsufficientCapacity
}

// ReleaseSpots decrements spots_booked by count, clamped at zero.
func (d *DB) ReleaseSpots(ctx context.Context, tripDateID string, count int) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.TripDate)(nil)).
		Set("spots_booked = CASE WHEN spots_booked > ? THEN spots_booked - ? ELSE 0 END", count, count).
		Where("id = ?", tripDateID).
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return capacity.ErrTripDateNotFound
	}
	return nil
}

// GetTripDate fetches one departure with its parent trip.
func (d *DB) GetTripDate(ctx context.Context, tripDateID string) (*models.TripDate, error) {
	var tripDate models.TripDate
	err := d.Bun.NewSelect().
		Model(&tripDate).
		Relation("Trip").
		Where("trip_date.id = ?", tripDateID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, capacity.ErrTripDateNotFound
		}
		return nil, err
	}
	return &tripDate, nil
}
