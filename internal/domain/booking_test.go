package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCanceled}
	allowed := map[[2]BookingStatus]bool{
		{StatusPending, StatusConfirmed}: true,
		{StatusPending, StatusCanceled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]BookingStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseBookingStatus("CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseBookingStatus("in_progress")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRole(t *testing.T) {
	t.Parallel()

	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	assert.Equal(t, StatusConfirmed, role.InitialStatus())
	assert.Equal(t, []BookingStatus{StatusPending, StatusConfirmed}, role.InitialHistory())

	role, err = ParseRole("USER")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, role.InitialStatus())
	assert.Equal(t, []BookingStatus{StatusPending}, role.InitialHistory())

	_, err = ParseRole("manager")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	at := func(h, m int) time.Time {
		return time.Date(2025, 8, 21, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"partial", at(9, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contains", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"touching end", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching start", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"disjoint", at(7, 0), at(8, 0), at(20, 0), at(21, 0), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestBooking_CanBeConfirmed(t *testing.T) {
	t.Parallel()

	reason := "double booked"

	assert.True(t, (&Booking{Status: StatusPending}).CanBeConfirmed())
	assert.False(t, (&Booking{Status: StatusPending, CancelReason: &reason}).CanBeConfirmed())
	assert.False(t, (&Booking{Status: StatusConfirmed}).CanBeConfirmed())
	assert.False(t, (&Booking{Status: StatusCanceled}).CanBeCanceled())
	assert.True(t, (&Booking{Status: StatusPending}).IsEditable())
	assert.False(t, (&Booking{Status: StatusConfirmed}).IsEditable())
}

func TestCourtDayKey(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "court:3:2025-08-21", CourtDayKey(3, date))
}
