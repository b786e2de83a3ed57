package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	ID        string          `bun:"id,pk" json:"id"`
	BookingID string          `bun:"booking_id,notnull" json:"booking_id"`
	Amount    decimal.Decimal `bun:"amount,notnull" json:"amount"`
	Status    PaymentStatus   `bun:"status,notnull" json:"status"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
