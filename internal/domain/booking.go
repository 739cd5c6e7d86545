package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCanceled  BookingStatus = "CANCELED"
)

// transitions is the only place where legal status changes are defined.
// CONFIRMED and CANCELED are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {},
	StatusCanceled:  {},
}

// ParseBookingStatus converts a string into a known status
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: unknown booking status %q", ErrValidation, s)
	}
	return status, nil
}

// CanTransitionTo reports whether s -> next is in the transition table
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive returns true for statuses that occupy the court
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses statuses taken into account by the overlap guard and availability
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// Role of the requester, supplied by the upstream identity provider
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole converts a string into a known role. Case-insensitive "admin"/"user" are accepted.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(s)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

// InitialStatus ADMIN bookings are confirmed right away, USER bookings wait for confirmation
func (r Role) InitialStatus() BookingStatus {
	if r == RoleAdmin {
		return StatusConfirmed
	}
	return StatusPending
}

// InitialHistory statuses written to the history when a booking is created.
// PENDING is always logged first, even for bookings that are confirmed immediately.
func (r Role) InitialHistory() []BookingStatus {
	if r == RoleAdmin {
		return []BookingStatus{StatusPending, StatusConfirmed}
	}
	return []BookingStatus{StatusPending}
}

// Booking represents a court reservation
type Booking struct {
	ID            int64
	UUID          uuid.UUID
	CourtID       int64
	UserID        int64
	CreatedByType Role
	Status        BookingStatus
	BookingDate   time.Time
	StartTime     time.Time
	EndTime       time.Time
	CancelReason  *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Detail *BookingDetail
}

// IsEditable date, time and price can only change while the booking is pending
func (b *Booking) IsEditable() bool {
	return b.Status == StatusPending
}

// CanBeConfirmed a canceled-with-reason booking can never be confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status.CanTransitionTo(StatusConfirmed) && b.CancelReason == nil
}

// CanBeCanceled returns true if the booking can be canceled
func (b *Booking) CanBeCanceled() bool {
	return b.Status.CanTransitionTo(StatusCanceled)
}

// OwnedBy returns true if the booking was requested by userID
func (b *Booking) OwnedBy(userID int64) bool {
	return b.UserID == userID
}

// Overlaps reports whether the booking's interval intersects [start, end)
func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartTime, b.EndTime, start, end)
}

// BookingDetail is created together with its booking and holds pricing data
type BookingDetail struct {
	ID         int64
	BookingID  int64
	Name       string
	TotalPrice decimal.Decimal
	TotalHour  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingHistory is one append-only row of the status audit trail
type BookingHistory struct {
	ID        int64
	BookingID int64
	Status    BookingStatus
	CreatedAt time.Time
}

// BookingsFilter filter for paged booking lists
type BookingsFilter struct {
	UserID        *int64
	CreatedByType *Role
	Status        *BookingStatus
	Limit         uint64
	Offset        uint64
}

// Overlaps is the half-open interval intersection test used everywhere in the service.
// Touching intervals (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CourtDayKey identifies the unit of serialization for writes: one court on one day
func CourtDayKey(courtID int64, date time.Time) string {
	return fmt.Sprintf("court:%d:%s", courtID, date.Format(DateFormat))
}
