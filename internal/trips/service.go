package trips

import (
	"context"
	"time"

	"trip-booking/internal/models"
)

type DBLayer interface {
	GetTrip(ctx context.Context, id string) (*models.Trip, error)
	GetTripDates(ctx context.Context, tripID string) ([]models.TripDate, error)
}

// TripService is the read side of the booking flow: which departures a
// trip has and whether they can still be booked. All writes to capacity go
// through the ledger, never through here.
type TripService struct {
	DB DBLayer
}

func NewTripService(db DBLayer) *TripService {
	return &TripService{DB: db}
}

func (s *TripService) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	return s.DB.GetTrip(ctx, id)
}

// TripDates returns the availability view for all departures of a trip.
func (s *TripService) TripDates(ctx context.Context, tripID string) ([]models.TripDateView, error) {
	tripDates, err := s.DB.GetTripDates(ctx, tripID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]models.TripDateView, len(tripDates))
	for i, td := range tripDates {
		views[i] = models.NewTripDateView(td, now)
	}
	return views, nil
}
