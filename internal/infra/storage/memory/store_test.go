package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
)

func newBooking(courtID int64, date time.Time, startHour, endHour int) *domain.Booking {
	return &domain.Booking{
		UUID:          uuid.New(),
		CourtID:       courtID,
		UserID:        1,
		CreatedByType: domain.RoleUser,
		Status:        domain.StatusPending,
		BookingDate:   date,
		StartTime:     date.Add(time.Duration(startHour) * time.Hour),
		EndTime:       date.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestStore_Courts(t *testing.T) {
	s := New()
	courtType := s.AddCourtType("Indoor", decimal.NewFromInt(600000))
	created, err := s.AddCourt("court-1", "Court 1", courtType.ID)
	require.NoError(t, err)

	_, err = s.AddCourt("court-1", "Duplicate", courtType.ID)
	assert.Error(t, err)
	_, err = s.AddCourt("court-2", "No type", 99)
	assert.Error(t, err)

	ctx := context.Background()
	got, err := s.Courts().GetBySlug(ctx, "court-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Rate().Equal(decimal.NewFromInt(600000)))

	_, err = s.Courts().GetBySlug(ctx, "court-404")
	assert.ErrorIs(t, err, court.ErrCourtNotFound)

	_, err = s.Courts().UpdateTypeRate(ctx, courtType.ID, decimal.NewFromInt(700000))
	require.NoError(t, err)
	got, err = s.Courts().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Rate().Equal(decimal.NewFromInt(700000)))
}

func TestTxManager_RollbackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	err := s.TxManager().DoSerializable(ctx, func(ctx context.Context) error {
		b, err := s.Bookings().Create(ctx, newBooking(1, date, 9, 11))
		require.NoError(t, err)
		_, err = s.History().Append(ctx, b.ID, domain.StatusPending)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	bookings, err := s.Bookings().ListByCourtAndDate(ctx, 1, date)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	history, err := s.History().ListByBookingID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)

	// sequences are restored too
	b, err := s.Bookings().Create(ctx, newBooking(1, date, 9, 11))
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
}

func TestTxManager_RollbackOnPanic(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)

	assert.Panics(t, func() {
		_ = s.TxManager().Do(ctx, func(ctx context.Context) error {
			_, _ = s.Bookings().Create(ctx, newBooking(1, date, 9, 11))
			panic("unexpected")
		})
	})

	bookings, err := s.Bookings().ListByCourtAndDate(ctx, 1, date)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBookingRepository_FindOverlapping(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)

	existing, err := s.Bookings().Create(ctx, newBooking(1, date, 9, 11))
	require.NoError(t, err)

	canceled := newBooking(1, date, 12, 13)
	canceled.Status = domain.StatusCanceled
	_, err = s.Bookings().Create(ctx, canceled)
	require.NoError(t, err)

	tests := []struct {
		name      string
		courtID   int64
		start     int
		end       int
		excludeID *int64
		want      int
	}{
		{name: "partial overlap", courtID: 1, start: 10, end: 12, want: 1},
		{name: "touching end", courtID: 1, start: 11, end: 12, want: 0},
		{name: "touching start", courtID: 1, start: 8, end: 9, want: 0},
		{name: "canceled ignored", courtID: 1, start: 12, end: 13, want: 0},
		{name: "other court", courtID: 2, start: 9, end: 11, want: 0},
		{name: "excluding itself", courtID: 1, start: 9, end: 11, excludeID: &existing.ID, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := date.Add(time.Duration(tt.start) * time.Hour)
			end := date.Add(time.Duration(tt.end) * time.Hour)

			found, err := s.Bookings().FindOverlapping(ctx, tt.courtID, date, start, end, tt.excludeID)
			require.NoError(t, err)
			assert.Len(t, found, tt.want)
		})
	}
}

func TestBookingRepository_UpdateStatusGuard(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)

	b, err := s.Bookings().Create(ctx, newBooking(1, date, 9, 11))
	require.NoError(t, err)

	require.NoError(t, s.Bookings().UpdateStatus(ctx, b.ID, domain.StatusPending, domain.StatusConfirmed, nil))
	err = s.Bookings().UpdateStatus(ctx, b.ID, domain.StatusPending, domain.StatusCanceled, nil)
	assert.ErrorIs(t, err, booking.ErrStatusChanged)

	assert.ErrorIs(t, s.Bookings().LockCourtDay(ctx, 1, date), booking.ErrNoTransaction)
}

func TestBookingRepository_ListPaging(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)

	for h := 7; h < 12; h++ {
		_, err := s.Bookings().Create(ctx, newBooking(1, date, h, h+1))
		require.NoError(t, err)
	}

	page, err := s.Bookings().List(ctx, domain.BookingsFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(5), page[0].ID)
	assert.Equal(t, int64(4), page[1].ID)

	page, err = s.Bookings().List(ctx, domain.BookingsFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(1), page[0].ID)

	page, err = s.Bookings().List(ctx, domain.BookingsFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}
