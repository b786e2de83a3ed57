package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Trip struct {
	bun.BaseModel `bun:"table:trips"`

	ID          string          `bun:"id,pk" json:"id"`
	Title       string          `bun:"title,notnull" json:"title"`
	Country     string          `bun:"country,notnull" json:"country"`
	Description string          `bun:"description,nullzero" json:"description,omitempty"`
	BasePrice   decimal.Decimal `bun:"base_price,notnull" json:"base_price"`
	Active      bool            `bun:"active,notnull,default:true" json:"active"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type TripDate struct {
	bun.BaseModel `bun:"table:trip_dates"`

	ID          string              `bun:"id,pk" json:"id"`
	TripID      string              `bun:"trip_id,notnull" json:"trip_id"`
	StartDate   time.Time           `bun:"start_date,notnull" json:"start_date"`
	EndDate     time.Time           `bun:"end_date,notnull" json:"end_date"`
	Price       decimal.NullDecimal `bun:"price" json:"price"`
	SpotsTotal  int                 `bun:"spots_total,notnull" json:"spots_total"`
	SpotsBooked int                 `bun:"spots_booked,notnull,default:0" json:"spots_booked"`
	Active      bool                `bun:"active,notnull,default:true" json:"active"`

	Trip *Trip `bun:"rel:belongs-to,join:trip_id=id" json:"trip,omitempty"`
}

// AvailableSpots is derived, never stored.
func (td *TripDate) AvailableSpots() int {
	return td.SpotsTotal - td.SpotsBooked
}

// IsAvailable reports whether the departure can still take bookings at the
// given instant: active, seats left, and not yet departed.
func (td *TripDate) IsAvailable(now time.Time) bool {
	return td.Active && td.AvailableSpots() > 0 && td.StartDate.After(now)
}

// TripDateView is the availability read model returned by the trips API.
type TripDateView struct {
	ID             string              `json:"id"`
	TripID         string              `json:"trip_id"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	Price          decimal.NullDecimal `json:"price"`
	SpotsTotal     int                 `json:"spots_total"`
	SpotsBooked    int                 `json:"spots_booked"`
	AvailableSpots int                 `json:"available_spots"`
	IsAvailable    bool                `json:"is_available"`
}

func NewTripDateView(td TripDate, now time.Time) TripDateView {
	return TripDateView{
		ID:             td.ID,
		TripID:         td.TripID,
		StartDate:      td.StartDate,
		EndDate:        td.EndDate,
		Price:          td.Price,
		SpotsTotal:     td.SpotsTotal,
		SpotsBooked:    td.SpotsBooked,
		AvailableSpots: td.AvailableSpots(),
		IsAvailable:    td.IsAvailable(now),
	}
}
