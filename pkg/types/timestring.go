package types

import (
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// ErrInvalidTimeString is returned when a value is not a valid "HH:MM" time of day.
var ErrInvalidTimeString = errors.New("invalid time string format")

// ErrTimeOverflow is returned when arithmetic moves a time of day past midnight.
var ErrTimeOverflow = errors.New("time of day out of range")

// TimeString is a wall-clock time of day in 24-hour "HH:MM" form.
type TimeString string

// NewTimeStringFromString parses and normalizes an "HH:MM" string.
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(t.Format(timeLayout)), nil
}

// NewTimeString takes the time of day from t, truncated to minutes.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromHour builds "HH:00".
func NewTimeStringFromHour(hour int) (TimeString, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: hour %d", ErrTimeOverflow, hour)
	}
	return TimeString(fmt.Sprintf("%02d:00", hour)), nil
}

// Validate checks the "HH:MM" format.
func (t TimeString) Validate() error {
	_, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Hour returns the hour component; the value must be valid.
func (t TimeString) Hour() int {
	parsed, _ := time.Parse(timeLayout, string(t))
	return parsed.Hour()
}

// Minute returns the minute component; the value must be valid.
func (t TimeString) Minute() int {
	parsed, _ := time.Parse(timeLayout, string(t))
	return parsed.Minute()
}

// MinutesOfDay returns minutes since midnight.
func (t TimeString) MinutesOfDay() int {
	return t.Hour()*60 + t.Minute()
}

// AddMinutes returns t shifted by minutes. Crossing midnight is an error.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	total := t.MinutesOfDay() + minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %s%+dm", ErrTimeOverflow, t, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.MinutesOfDay() < other.MinutesOfDay()
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.MinutesOfDay() > other.MinutesOfDay()
}

// IsZero reports whether t is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// On anchors t to the calendar day of date in loc.
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

func (t TimeString) String() string {
	return string(t)
}
