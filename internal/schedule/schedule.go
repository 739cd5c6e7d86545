package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

var (
	// ErrTimeNotAligned start/end is not on a whole hour or falls outside business hours
	ErrTimeNotAligned = fmt.Errorf("%w: time not aligned to business window", domain.ErrValidation)

	// ErrInvalidTimeRange start is not before end
	ErrInvalidTimeRange = fmt.Errorf("%w: start time must be before end time", domain.ErrValidation)

	// ErrInvalidDate date is not a YYYY-MM-DD calendar day
	ErrInvalidDate = fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", domain.ErrValidation)

	// ErrInvalidTime time is not HH:mm
	ErrInvalidTime = fmt.Errorf("%w: invalid time, expected HH:mm", domain.ErrValidation)
)

// BusinessHours describes the bookable part of a day
type BusinessHours struct {
	StartHour       int
	EndHour         int
	SlotLengthHours int
	Location        *time.Location
}

// Default returns 07:00-22:00 with one-hour slots in the default time zone
func Default() BusinessHours {
	loc, err := time.LoadLocation(domain.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return BusinessHours{
		StartHour:       domain.DefaultBusinessStartHour,
		EndHour:         domain.DefaultBusinessEndHour,
		SlotLengthHours: domain.DefaultSlotLengthHours,
		Location:        loc,
	}
}

// GenerateSlots returns contiguous non-overlapping windows of SlotLengthHours covering
// [StartHour:00, EndHour:00). A trailing window that would pass EndHour is dropped.
// All slots start available.
func (h BusinessHours) GenerateSlots() []domain.TimeSlot {
	step := h.SlotLengthHours
	if step <= 0 {
		step = 1
	}

	slots := make([]domain.TimeSlot, 0, (h.EndHour-h.StartHour)/step)
	for hour := h.StartHour; hour+step <= h.EndHour; hour += step {
		start, err := types.NewTimeStringFromHour(hour)
		if err != nil {
			break
		}
		end, err := types.NewTimeStringFromHour(hour + step)
		if err != nil {
			break
		}
		slots = append(slots, domain.TimeSlot{
			StartTime:   start,
			EndTime:     end,
			IsAvailable: true,
		})
	}
	return slots
}

// ComputeDuration returns the whole number of hours between start and end.
// Both must be on the hour and inside business hours.
func (h BusinessHours) ComputeDuration(start, end types.TimeString) (int, error) {
	if err := start.Validate(); err != nil {
		return 0, fmt.Errorf("%w: start %q", ErrInvalidTime, start)
	}
	if err := end.Validate(); err != nil {
		return 0, fmt.Errorf("%w: end %q", ErrInvalidTime, end)
	}

	if start.Minute() != 0 || end.Minute() != 0 ||
		end.Hour() > h.EndHour || start.Hour() < h.StartHour {
		return 0, fmt.Errorf("%w: %s-%s outside %02d:00-%02d:00 or not on the hour",
			ErrTimeNotAligned, start, end, h.StartHour, h.EndHour)
	}

	hours := end.Hour() - start.Hour()
	if hours <= 0 {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, start, end)
	}
	return hours, nil
}

// ComputePrice multiplies the duration by the hourly rate without floating point
func ComputePrice(hours int, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(hours)))
}

// ParseDate parses a YYYY-MM-DD day in the business time zone
func (h BusinessHours) ParseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateFormat, s, h.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return date, nil
}

// ParseTime parses an HH:mm time of day
func ParseTime(s string) (types.TimeString, error) {
	t, err := types.NewTimeStringFromString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t, nil
}

// Interval anchors start and end to date in the business time zone
func (h BusinessHours) Interval(date time.Time, start, end types.TimeString) (time.Time, time.Time) {
	loc := h.location()
	return start.On(date, loc), end.On(date, loc)
}

// LocalTime converts a stored timestamp back to an HH:mm wall-clock time
func (h BusinessHours) LocalTime(t time.Time) types.TimeString {
	return types.NewTimeString(t.In(h.location()))
}

func (h BusinessHours) location() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}
