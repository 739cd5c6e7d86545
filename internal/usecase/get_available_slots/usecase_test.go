package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/cache"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtBooking/internal/schedule"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

var testHours = schedule.BusinessHours{StartHour: 7, EndHour: 22, SlotLengthHours: 1, Location: time.UTC}

func seedStore(t *testing.T) (*memory.Store, *domain.Court) {
	t.Helper()
	store := memory.New()
	courtType := store.AddCourtType("Indoor", decimal.NewFromInt(600000))
	court, err := store.AddCourt("court-1", "Court 1", courtType.ID)
	require.NoError(t, err)
	return store, court
}

func addBooking(t *testing.T, store *memory.Store, courtID int64, date string, start, end types.TimeString, status domain.BookingStatus) {
	t.Helper()
	day, err := testHours.ParseDate(date)
	require.NoError(t, err)
	s, e := testHours.Interval(day, start, end)
	_, err = store.Bookings().Create(context.Background(), &domain.Booking{
		UUID:          uuid.New(),
		CourtID:       courtID,
		UserID:        1,
		CreatedByType: domain.RoleUser,
		Status:        status,
		BookingDate:   day,
		StartTime:     s,
		EndTime:       e,
	})
	require.NoError(t, err)
}

func unavailable(slots []domain.TimeSlot) []string {
	result := make([]string, 0)
	for _, s := range slots {
		if !s.IsAvailable {
			result = append(result, s.StartTime.String()+"-"+s.EndTime.String())
		}
	}
	return result
}

func TestUseCase_Execute_EmptyDay(t *testing.T) {
	store, _ := seedStore(t)
	uc := NewUseCase(store.Courts(), store.Bookings(), cache.Noop{}, testHours, logger.NewDiscard())

	resp, err := uc.Execute(context.Background(), &Request{CourtSlug: "court-1", Date: "2025-08-21"})
	require.NoError(t, err)

	a := resp.Availability
	assert.Equal(t, "2025-08-21", a.Date)
	assert.Equal(t, "court-1", a.CourtSlug)
	assert.True(t, a.Rate.Equal(decimal.NewFromInt(600000)))
	require.Len(t, a.Slots, 15)
	assert.Equal(t, types.TimeString("07:00"), a.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("22:00"), a.Slots[14].EndTime)
	assert.Equal(t, 15, a.FreeSlots())
	assert.False(t, resp.FromCache)
}

func TestUseCase_Execute_MarksOverlappingSlots(t *testing.T) {
	tests := []struct {
		name     string
		bookings [][2]types.TimeString
		status   domain.BookingStatus
		want     []string
	}{
		{
			name:     "two hour booking",
			bookings: [][2]types.TimeString{{"09:00", "11:00"}},
			status:   domain.StatusPending,
			want:     []string{"09:00-10:00", "10:00-11:00"},
		},
		{
			name:     "confirmed counts too",
			bookings: [][2]types.TimeString{{"21:00", "22:00"}},
			status:   domain.StatusConfirmed,
			want:     []string{"21:00-22:00"},
		},
		{
			name:     "canceled is ignored",
			bookings: [][2]types.TimeString{{"09:00", "11:00"}},
			status:   domain.StatusCanceled,
			want:     []string{},
		},
		{
			name:     "half hour interval blocks both slots it touches",
			bookings: [][2]types.TimeString{{"10:30", "11:30"}},
			status:   domain.StatusPending,
			want:     []string{"10:00-11:00", "11:00-12:00"},
		},
		{
			name:     "adjacent bookings",
			bookings: [][2]types.TimeString{{"07:00", "08:00"}, {"08:00", "09:00"}},
			status:   domain.StatusPending,
			want:     []string{"07:00-08:00", "08:00-09:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, court := seedStore(t)
			for _, b := range tt.bookings {
				addBooking(t, store, court.ID, "2025-08-21", b[0], b[1], tt.status)
			}
			// another day and another court never leak in
			addBooking(t, store, court.ID, "2025-08-22", "12:00", "13:00", domain.StatusPending)
			addBooking(t, store, court.ID+1, "2025-08-21", "12:00", "13:00", domain.StatusPending)

			uc := NewUseCase(store.Courts(), store.Bookings(), cache.Noop{}, testHours, logger.NewDiscard())
			resp, err := uc.Execute(context.Background(), &Request{CourtSlug: "court-1", Date: "2025-08-21"})
			require.NoError(t, err)

			assert.Equal(t, tt.want, unavailable(resp.Availability.Slots))
		})
	}
}

func TestUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "missing court", req: &Request{Date: "2025-08-21"}, wantErr: ErrInvalidInput},
		{name: "missing date", req: &Request{CourtSlug: "court-1"}, wantErr: ErrInvalidInput},
		{name: "malformed date", req: &Request{CourtSlug: "court-1", Date: "2025-13-01"}, wantErr: schedule.ErrInvalidDate},
		{name: "unknown court", req: &Request{CourtSlug: "court-9", Date: "2025-08-21"}, wantErr: ErrCourtNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := seedStore(t)
			uc := NewUseCase(store.Courts(), store.Bookings(), cache.Noop{}, testHours, logger.NewDiscard())

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUseCase_Execute_UsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, court := seedStore(t)
	availabilityCache := cache.NewRedisAvailabilityCache(client, time.Minute)
	uc := NewUseCase(store.Courts(), store.Bookings(), availabilityCache, testHours, logger.NewDiscard())
	ctx := context.Background()
	req := &Request{CourtSlug: "court-1", Date: "2025-08-21"}

	first, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	// the write path invalidates, so a booking added behind the cache's back stays invisible
	addBooking(t, store, court.ID, "2025-08-21", "09:00", "10:00", domain.StatusPending)
	second, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 15, second.Availability.FreeSlots())

	day, _ := testHours.ParseDate("2025-08-21")
	require.NoError(t, availabilityCache.Invalidate(ctx, court.ID, day))

	third, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, []string{"09:00-10:00"}, unavailable(third.Availability.Slots))
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, int64, time.Time) (*domain.Availability, bool, error) {
	return nil, false, errors.New("redis: connection refused")
}

func (brokenCache) Version(context.Context, int64, time.Time) (string, error) {
	return "", errors.New("redis: connection refused")
}

func (brokenCache) Set(context.Context, int64, time.Time, string, *domain.Availability) error {
	return errors.New("redis: connection refused")
}

func TestUseCase_Execute_CacheFailureIsNotFatal(t *testing.T) {
	store, _ := seedStore(t)
	uc := NewUseCase(store.Courts(), store.Bookings(), brokenCache{}, testHours, logger.NewDiscard())

	resp, err := uc.Execute(context.Background(), &Request{CourtSlug: "court-1", Date: "2025-08-21"})
	require.NoError(t, err)
	assert.Len(t, resp.Availability.Slots, 15)
}

// racingWriter commits a booking and invalidates the day right after the reader
// has loaded the bookings, the way a concurrent create does
type racingWriter struct {
	BookingRepository
	store   *memory.Store
	cache   *cache.RedisAvailabilityCache
	courtID int64
	fired   bool
	t       *testing.T
}

func (r *racingWriter) ListByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error) {
	bookings, err := r.BookingRepository.ListByCourtAndDate(ctx, courtID, date)
	if !r.fired {
		r.fired = true
		addBooking(r.t, r.store, r.courtID, date.Format(domain.DateFormat), "09:00", "10:00", domain.StatusPending)
		require.NoError(r.t, r.cache.Invalidate(ctx, r.courtID, date))
	}
	return bookings, err
}

func TestUseCase_Execute_ConcurrentWriteIsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, court := seedStore(t)
	availabilityCache := cache.NewRedisAvailabilityCache(client, time.Minute)
	repo := &racingWriter{BookingRepository: store.Bookings(), store: store, cache: availabilityCache, courtID: court.ID, t: t}
	uc := NewUseCase(store.Courts(), repo, availabilityCache, testHours, logger.NewDiscard())
	ctx := context.Background()
	req := &Request{CourtSlug: "court-1", Date: "2025-08-21"}

	first, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 15, first.Availability.FreeSlots(), "computed before the write became visible")

	second, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, second.FromCache, "the pre-write answer must not be served")
	assert.Equal(t, []string{"09:00-10:00"}, unavailable(second.Availability.Slots))

	third, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, third.FromCache)
	assert.Equal(t, []string{"09:00-10:00"}, unavailable(third.Availability.Slots))
}

func TestMarkAvailability_SlotLength(t *testing.T) {
	hours := schedule.BusinessHours{StartHour: 7, EndHour: 22, SlotLengthHours: 2, Location: time.UTC}
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		Status:    domain.StatusPending,
		StartTime: date.Add(10 * time.Hour),
		EndTime:   date.Add(12 * time.Hour),
	}

	slots := markAvailability(hours, date, hours.GenerateSlots(), []*domain.Booking{booking})

	require.Len(t, slots, 7) // 07-09 ... 19-21, 21-23 is dropped
	assert.Equal(t, []string{"09:00-11:00", "11:00-13:00"}, unavailable(slots))
}
