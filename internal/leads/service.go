package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trip-booking/internal/logger"
	"trip-booking/internal/models"
)

type DBLayer interface {
	CreateLead(ctx context.Context, lead models.LeadRequest) error
	GetLeadsByTrip(ctx context.Context, tripID string, includeSpam bool) ([]models.LeadRequest, error)
}

type TripStore interface {
	GetTrip(ctx context.Context, id string) (*models.Trip, error)
}

type RateLimiter interface {
	Exceeded(ctx context.Context, phone string, now time.Time) (bool, error)
	Record(ctx context.Context, phone string, now time.Time) error
}

type Publisher interface {
	Publish(ctx context.Context, event models.NotificationEvent) error
}

// LeadService runs inbound lead submissions through the filter chain:
// phone format (hard), rate limit (hard), keyword classification (soft),
// then persists and emits a lead_captured event unless the lead was
// flagged as spam.
type LeadService struct {
	DB         DBLayer
	Trips      TripStore
	Limiter    RateLimiter
	Publisher  Publisher
	Classifier *Classifier
	Logger     *logger.Logger
}

func NewLeadService(db DBLayer, trips TripStore, limiter RateLimiter, publisher Publisher, classifier *Classifier, log *logger.Logger) *LeadService {
	return &LeadService{
		DB:         db,
		Trips:      trips,
		Limiter:    limiter,
		Publisher:  publisher,
		Classifier: classifier,
		Logger:     log,
	}
}

func (s *LeadService) Submit(ctx context.Context, sub models.LeadSubmission) (*models.LeadRequest, error) {
	if sub.TripID == "" {
		return nil, fmt.Errorf("%w: trip id is required", ErrInvalidArgument)
	}
	if sub.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if !sub.PreferredContact.Valid() {
		return nil, fmt.Errorf("%w: unknown contact channel %q", ErrInvalidArgument, sub.PreferredContact)
	}
	if err := ValidatePhone(sub.Phone); err != nil {
		return nil, err
	}

	trip, err := s.Trips.GetTrip(ctx, sub.TripID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exceeded, err := s.Limiter.Exceeded(ctx, sub.Phone, now)
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	if exceeded {
		s.Logger.Warn("LEADS", fmt.Sprintf("Rate limit hit for phone %s", sub.Phone))
		return nil, ErrRateLimited
	}

	lead := models.LeadRequest{
		ID:               uuid.NewString(),
		TripID:           trip.ID,
		Name:             sub.Name,
		Phone:            sub.Phone,
		Email:            sub.Email,
		PreferredContact: sub.PreferredContact,
		Notes:            sub.Notes,
		IsSpam:           s.Classifier.IsSpam(sub.Notes),
		CreatedAt:        now,
	}

	if err := s.DB.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to store lead request: %w", err)
	}

	if err := s.Limiter.Record(ctx, sub.Phone, now); err != nil {
		// The lead is already stored; a miscounted window is the lesser evil.
		s.Logger.Error("LEADS", fmt.Sprintf("Failed to record rate limit entry for %s: %v", sub.Phone, err))
	}

	if lead.IsSpam {
		s.Logger.Warn("LEADS", fmt.Sprintf("Lead %s flagged as spam, notification suppressed", lead.ID))
		return &lead, nil
	}

	event := models.NotificationEvent{
		Kind:             models.NotificationLeadCaptured,
		TripTitle:        trip.Title,
		ContactName:      lead.Name,
		Phone:            lead.Phone,
		PreferredContact: lead.PreferredContact,
		OccurredAt:       now,
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish lead_captured for %s: %v", lead.ID, err))
	}

	return &lead, nil
}

// ListByTrip returns a trip's leads, spam excluded unless asked for.
func (s *LeadService) ListByTrip(ctx context.Context, tripID string, includeSpam bool) ([]models.LeadRequest, error) {
	return s.DB.GetLeadsByTrip(ctx, tripID, includeSpam)
}
