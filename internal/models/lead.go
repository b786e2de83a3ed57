package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ContactChannel string

const (
	ContactTelegram ContactChannel = "tg"
	ContactWhatsApp ContactChannel = "wa"
	ContactCall     ContactChannel = "call"
)

func (c ContactChannel) Valid() bool {
	switch c {
	case ContactTelegram, ContactWhatsApp, ContactCall:
		return true
	}
	return false
}

// LeadRequest is an inbound contact inquiry for a trip. Write-once: the spam
// classification is attached at creation and never revisited.
type LeadRequest struct {
	bun.BaseModel `bun:"table:lead_requests"`

	ID               string         `bun:"id,pk" json:"id"`
	TripID           string         `bun:"trip_id,notnull" json:"trip_id"`
	Name             string         `bun:"name,notnull" json:"name"`
	Phone            string         `bun:"phone,notnull" json:"phone"`
	Email            string         `bun:"email,nullzero" json:"email,omitempty"`
	PreferredContact ContactChannel `bun:"preferred_contact,notnull" json:"preferred_contact"`
	Notes            string         `bun:"notes,nullzero" json:"notes,omitempty"`
	IsSpam           bool           `bun:"is_spam,notnull,default:false" json:"is_spam"`
	CreatedAt        time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type LeadSubmission struct {
	TripID           string         `json:"trip_id"`
	Name             string         `json:"name"`
	Phone            string         `json:"phone"`
	Email            string         `json:"email,omitempty"`
	PreferredContact ContactChannel `json:"preferred_contact"`
	Notes            string         `json:"notes,omitempty"`
}
