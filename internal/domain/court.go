package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CourtType groups courts that share an hourly rate
type CourtType struct {
	ID        int64
	Name      string
	Rate      decimal.Decimal // price per hour
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Court is a bookable resource
type Court struct {
	ID          int64
	Slug        string
	Name        string
	CourtTypeID int64
	Type        *CourtType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Rate returns the hourly rate of the court's type, zero when the type is not loaded
func (c *Court) Rate() decimal.Decimal {
	if c.Type == nil {
		return decimal.Zero
	}
	return c.Type.Rate
}

// CourtUpdate is a partial change of a court, nil fields keep the current value
type CourtUpdate struct {
	Name        *string
	Slug        *string
	CourtTypeID *int64
}

// IsEmpty reports whether the update changes nothing
func (u CourtUpdate) IsEmpty() bool {
	return u.Name == nil && u.Slug == nil && u.CourtTypeID == nil
}
