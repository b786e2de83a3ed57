package capacity

import (
	"context"
	"errors"
	"fmt"

	"trip-booking/internal/logger"
	"trip-booking/internal/models"
)

var (
	// ErrInvalidArgument is returned for a non-positive seat count.
	ErrInvalidArgument = errors.New("seat count must be a positive integer")
	// ErrInsufficientCapacity is the expected outcome when a departure
	// cannot take the requested seats. Not an exceptional condition.
	ErrInsufficientCapacity = errors.New("not enough spots available")
	// ErrTripDateNotFound is returned when the departure does not exist.
	ErrTripDateNotFound = errors.New("trip date not found")
)

// Store is the persistence contract the ledger drives. ReserveSpots must be
// a single conditional update: increment spots_booked only if the result
// stays within spots_total, applied as one indivisible statement.
type Store interface {
	ReserveSpots(ctx context.Context, tripDateID string, count int) (int, error)
	ReleaseSpots(ctx context.Context, tripDateID string, count int) error
	GetTripDate(ctx context.Context, tripDateID string) (*models.TripDate, error)
}

// Ledger owns the available-seats invariant for trip dates. No other
// component writes spots_booked.
type Ledger struct {
	Store  Store
	Logger *logger.Logger
}

func NewLedger(store Store, log *logger.Logger) *Ledger {
	return &Ledger{Store: store, Logger: log}
}

// Reserve consumes count seats from the departure's remaining capacity.
// On success it returns the updated spots_booked value.
func (l *Ledger) Reserve(ctx context.Context, tripDateID string, count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidArgument, count)
	}

	booked, err := l.Store.ReserveSpots(ctx, tripDateID, count)
	if err != nil {
		if errors.Is(err, ErrInsufficientCapacity) || errors.Is(err, ErrTripDateNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("reserve %d spots on trip date %s: %w", count, tripDateID, err)
	}

	l.Logger.Info("LEDGER", fmt.Sprintf("Reserved %d spots on trip date %s (booked now %d)", count, tripDateID, booked))
	return booked, nil
}

// Release returns count seats to the departure, clamped at zero booked.
// Used by booking cancellation so cancelled seats become sellable again.
func (l *Ledger) Release(ctx context.Context, tripDateID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidArgument, count)
	}

	if err := l.Store.ReleaseSpots(ctx, tripDateID, count); err != nil {
		return fmt.Errorf("release %d spots on trip date %s: %w", count, tripDateID, err)
	}

	l.Logger.Info("LEDGER", fmt.Sprintf("Released %d spots on trip date %s", count, tripDateID))
	return nil
}

// TripDate loads the departure for availability checks. Read-only.
func (l *Ledger) TripDate(ctx context.Context, tripDateID string) (*models.TripDate, error) {
	return l.Store.GetTripDate(ctx, tripDateID)
}
