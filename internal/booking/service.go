package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"trip-booking/internal/capacity"
	"trip-booking/internal/logger"
	"trip-booking/internal/models"
	"trip-booking/internal/pricing"
)

var (
	// ErrInvalidArgument covers malformed input, rejected before any state change.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState signals a transition the state machine does not allow.
	ErrInvalidState = errors.New("booking is not in a valid state for this operation")
	// ErrTripDateUnavailable is returned when the departure is inactive,
	// full, or already departed.
	ErrTripDateUnavailable = errors.New("trip date is not available for booking")
	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrPaymentExceedsTotal rejects payments that would push the completed
	// sum past the booking total.
	ErrPaymentExceedsTotal = errors.New("payment exceeds booking total")
	// ErrDuplicateBookingNumber is surfaced by the storage layer when an
	// insert trips the unique constraint on booking_number.
	ErrDuplicateBookingNumber = errors.New("booking number already exists")
)

// How many times a pending insert is retried on a booking number collision.
const maxNumberAttempts = 3

type DBLayer interface {
	CreateBooking(ctx context.Context, booking models.Booking) error
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsByUserID(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (bool, error)
	CreatePayment(ctx context.Context, payment models.Payment) error
	SumCompletedPayments(ctx context.Context, bookingID string) (decimal.Decimal, error)
	GetPaymentsByBooking(ctx context.Context, bookingID string) ([]models.Payment, error)
}

type Ledger interface {
	Reserve(ctx context.Context, tripDateID string, count int) (int, error)
	Release(ctx context.Context, tripDateID string, count int) error
	TripDate(ctx context.Context, tripDateID string) (*models.TripDate, error)
}

type Publisher interface {
	Publish(ctx context.Context, event models.NotificationEvent) error
}

// BookingService orchestrates the booking lifecycle:
// pending -> confirmed -> completed, cancellable from pending or confirmed.
// Capacity is consumed only on confirm, through the ledger's atomic reserve.
type BookingService struct {
	DB        DBLayer
	Ledger    Ledger
	Publisher Publisher
	Logger    *logger.Logger
}

func NewBookingService(db DBLayer, ledger Ledger, publisher Publisher, log *logger.Logger) *BookingService {
	return &BookingService{DB: db, Ledger: ledger, Publisher: publisher, Logger: log}
}

// Create validates the request, prices it, and stores a pending booking.
// The capacity check here is advisory only: it keeps obviously-doomed
// bookings out, but the binding check happens inside Confirm via the
// ledger, because availability can change between the two calls.
func (s *BookingService) Create(ctx context.Context, userID string, req models.BookingRequest) (*models.Booking, error) {
	if req.TravelerCount < 1 {
		return nil, fmt.Errorf("%w: traveler count must be at least 1", ErrInvalidArgument)
	}
	if req.TripDateID == "" {
		return nil, fmt.Errorf("%w: trip date id is required", ErrInvalidArgument)
	}

	tripDate, err := s.Ledger.TripDate(ctx, req.TripDateID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !tripDate.IsAvailable(now) {
		return nil, ErrTripDateUnavailable
	}
	if req.TravelerCount > tripDate.AvailableSpots() {
		return nil, fmt.Errorf("%w: %d travelers requested, %d spots left",
			capacity.ErrInsufficientCapacity, req.TravelerCount, tripDate.AvailableSpots())
	}
	if tripDate.Trip == nil {
		return nil, fmt.Errorf("trip date %s has no parent trip loaded", tripDate.ID)
	}

	booking := models.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		TripID:          tripDate.TripID,
		TripDateID:      tripDate.ID,
		Status:          models.BookingPending,
		TravelerCount:   req.TravelerCount,
		TotalPrice:      pricing.Total(*tripDate, *tripDate.Trip, req.TravelerCount),
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now,
	}

	// Uniqueness of the booking number is enforced by the database, not by
	// trusting randomness: retry the insert on a collision.
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		booking.BookingNumber = NewBookingNumber(now)
		err = s.DB.CreateBooking(ctx, booking)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateBookingNumber) {
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
		s.Logger.Warn("BOOKING", fmt.Sprintf("Booking number collision on %s, retrying", booking.BookingNumber))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create booking after %d attempts: %w", maxNumberAttempts, err)
	}

	s.Logger.LogBooking("CREATE", booking.BookingNumber, fmt.Sprintf("pending booking for %d travelers on %s", booking.TravelerCount, booking.TripDateID))

	// Fire-and-forget: a notification failure never rolls back the booking.
	event := models.NotificationEvent{
		Kind:          models.NotificationBookingCreated,
		TripTitle:     tripDate.Trip.Title,
		ContactName:   userID,
		BookingNumber: booking.BookingNumber,
		OccurredAt:    now,
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish booking_created for %s: %v", booking.BookingNumber, err))
	}

	return &booking, nil
}

// Confirm consumes seats through the ledger and moves the booking to
// confirmed. The status row is claimed first so a concurrent confirm can
// never reserve the same booking twice; on a capacity failure the claim is
// rolled back and the booking stays pending.
func (s *BookingService) Confirm(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.DB.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	claimed, err := s.DB.UpdateBookingStatus(ctx, booking.ID, models.BookingPending, models.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm booking %s: %w", booking.BookingNumber, err)
	}
	if !claimed {
		return nil, fmt.Errorf("%w: booking %s is %s, expected pending", ErrInvalidState, booking.BookingNumber, booking.Status)
	}

	if _, err := s.Ledger.Reserve(ctx, booking.TripDateID, booking.TravelerCount); err != nil {
		// Seats could not be taken; hand the claim back.
		if _, revertErr := s.DB.UpdateBookingStatus(ctx, booking.ID, models.BookingConfirmed, models.BookingPending); revertErr != nil {
			s.Logger.Error("BOOKING", fmt.Sprintf("Failed to revert booking %s to pending: %v", booking.BookingNumber, revertErr))
		}
		return nil, err
	}

	booking.Status = models.BookingConfirmed
	s.Logger.LogBooking("CONFIRM", booking.BookingNumber, fmt.Sprintf("reserved %d spots on %s", booking.TravelerCount, booking.TripDateID))
	return booking, nil
}

// Cancel is allowed from pending or confirmed. Cancelling a confirmed
// booking returns its seats to the ledger so they become sellable again.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.DB.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransition(models.BookingCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidState, booking.Status)
	}

	claimed, err := s.DB.UpdateBookingStatus(ctx, booking.ID, booking.Status, models.BookingCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", booking.BookingNumber, err)
	}
	if !claimed {
		return nil, fmt.Errorf("%w: booking %s changed state concurrently", ErrInvalidState, booking.BookingNumber)
	}

	if booking.Status == models.BookingConfirmed {
		if err := s.Ledger.Release(ctx, booking.TripDateID, booking.TravelerCount); err != nil {
			s.Logger.Error("LEDGER", fmt.Sprintf("Failed to release %d spots for cancelled booking %s: %v", booking.TravelerCount, booking.BookingNumber, err))
			return nil, fmt.Errorf("booking %s cancelled but seat release failed: %w", booking.BookingNumber, err)
		}
	}

	booking.Status = models.BookingCancelled
	s.Logger.LogBooking("CANCEL", booking.BookingNumber, "booking cancelled")
	return booking, nil
}

// Complete closes out a confirmed booking once the departure is over.
func (s *BookingService) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.DB.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != models.BookingConfirmed {
		return nil, fmt.Errorf("%w: cannot complete a %s booking", ErrInvalidState, booking.Status)
	}

	tripDate, err := s.Ledger.TripDate(ctx, booking.TripDateID)
	if err != nil {
		return nil, err
	}
	if tripDate.EndDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: trip date %s has not finished yet", ErrInvalidState, tripDate.ID)
	}

	claimed, err := s.DB.UpdateBookingStatus(ctx, booking.ID, models.BookingConfirmed, models.BookingCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to complete booking %s: %w", booking.BookingNumber, err)
	}
	if !claimed {
		return nil, fmt.Errorf("%w: booking %s changed state concurrently", ErrInvalidState, booking.BookingNumber)
	}

	booking.Status = models.BookingCompleted
	s.Logger.LogBooking("COMPLETE", booking.BookingNumber, "booking completed")
	return booking, nil
}

// Get returns one booking by ID.
func (s *BookingService) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.DB.GetBookingByID(ctx, bookingID)
}

// ListByUser returns a user's bookings, newest first.
func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	return s.DB.GetBookingsByUserID(ctx, userID)
}

// RecordPayment books a completed payment against a booking. The sum of
// completed payments can never exceed the booking total.
func (s *BookingService) RecordPayment(ctx context.Context, bookingID string, amount decimal.Decimal) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidArgument)
	}

	booking, err := s.DB.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	paid, err := s.DB.SumCompletedPayments(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments for booking %s: %w", booking.BookingNumber, err)
	}

	if paid.Add(amount).GreaterThan(booking.TotalPrice) {
		excess := paid.Add(amount).Sub(booking.TotalPrice)
		return nil, fmt.Errorf("%w: over by %s", ErrPaymentExceedsTotal, excess.String())
	}

	payment := models.Payment{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		Amount:    amount,
		Status:    models.PaymentCompleted,
		CreatedAt: time.Now(),
	}
	if err := s.DB.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment for booking %s: %w", booking.BookingNumber, err)
	}

	s.Logger.LogBooking("PAYMENT", booking.BookingNumber, fmt.Sprintf("recorded payment of %s", amount.String()))
	return &payment, nil
}

// Payments returns a booking's payments, oldest first.
func (s *BookingService) Payments(ctx context.Context, bookingID string) ([]models.Payment, error) {
	if _, err := s.DB.GetBookingByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.DB.GetPaymentsByBooking(ctx, bookingID)
}
