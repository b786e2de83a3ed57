package db

import (
	"context"

	"github.com/uptrace/bun"

	"trip-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateLead inserts a lead request. Write-once: leads are never updated.
func (d *DB) CreateLead(ctx context.Context, lead models.LeadRequest) error {
	_, err := d.Bun.NewInsert().Model(&lead).Exec(ctx)
	return err
}

// GetLeadsByTrip fetches a trip's leads, newest first. Spam is excluded
// unless includeSpam is set.
func (d *DB) GetLeadsByTrip(ctx context.Context, tripID string, includeSpam bool) ([]models.LeadRequest, error) {
	var leadRequests []models.LeadRequest
	q := d.Bun.NewSelect().
		Model(&leadRequests).
		Where("trip_id = ?", tripID).
		Order("created_at DESC")
	if !includeSpam {
		q = q.Where("is_spam = ?", false)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	if leadRequests == nil {
		leadRequests = []models.LeadRequest{}
	}
	return leadRequests, nil
}
