package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"trip-booking/internal/booking"
	"trip-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateBooking inserts a new booking. A unique-constraint hit on
// booking_number is mapped to booking.ErrDuplicateBookingNumber so the
// service can retry with a fresh number.
func (d *DB) CreateBooking(ctx context.Context, b models.Booking) error {
	_, err := d.Bun.NewInsert().Model(&b).Exec(ctx)
	if err != nil && isUniqueViolation(err) {
		return booking.ErrDuplicateBookingNumber
	}
	return err
}

// GetBookingByID fetches one booking by its ID.
func (d *DB) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := d.Bun.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetBookingsByUserID fetches a user's bookings, newest first.
func (d *DB) GetBookingsByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// UpdateBookingStatus transitions a booking from one status to another as a
// conditional update. Returns false when the row was not in the expected
// status, which is how concurrent double-transitions lose.
func (d *DB) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// CreatePayment inserts a payment row.
func (d *DB) CreatePayment(ctx context.Context, p models.Payment) error {
	_, err := d.Bun.NewInsert().Model(&p).Exec(ctx)
	return err
}

// SumCompletedPayments totals the completed payments for a booking.
// Amounts are summed in Go so decimal stays decimal across dialects.
func (d *DB) SumCompletedPayments(ctx context.Context, bookingID string) (decimal.Decimal, error) {
	var payments []models.Payment
	err := d.Bun.NewSelect().
		Model(&payments).
		Where("booking_id = ?", bookingID).
		Where("status = ?", models.PaymentCompleted).
		Scan(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

// GetPaymentsByBooking fetches all payments for a booking, oldest first.
func (d *DB) GetPaymentsByBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := d.Bun.NewSelect().
		Model(&payments).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// Postgres reports 23505, sqlite "UNIQUE constraint failed". Matching on
// the message keeps this portable across the prod and test drivers.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
