package domain

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// TimeSlot is a candidate booking window, computed on the fly and never stored
type TimeSlot struct {
	StartTime   types.TimeString `json:"start_time"`
	EndTime     types.TimeString `json:"end_time"`
	IsAvailable bool             `json:"is_available"`
}

// Availability is the answer to "what is free on this court on this day"
type Availability struct {
	Date      string          `json:"date"`
	CourtID   int64           `json:"court_id"`
	CourtSlug string          `json:"court_slug"`
	Rate      decimal.Decimal `json:"rate"`
	Slots     []TimeSlot      `json:"slots"`
}

// FreeSlots returns the number of available slots
func (a *Availability) FreeSlots() int {
	n := 0
	for _, s := range a.Slots {
		if s.IsAvailable {
			n++
		}
	}
	return n
}
