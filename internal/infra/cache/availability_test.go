package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

func version(t *testing.T, c *RedisAvailabilityCache, courtID int64, date time.Time) string {
	t.Helper()
	v, err := c.Version(context.Background(), courtID, date)
	require.NoError(t, err)
	return v
}

func TestRedisAvailabilityCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisAvailabilityCache(client, time.Minute)
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	nextDay := date.AddDate(0, 0, 1)

	_, ok, err := c.Get(ctx, 1, date)
	require.NoError(t, err)
	assert.False(t, ok)

	availability := &domain.Availability{
		Date:      "2025-08-21",
		CourtID:   1,
		CourtSlug: "court-1",
		Rate:      decimal.NewFromInt(600000),
		Slots: []domain.TimeSlot{
			{StartTime: "07:00", EndTime: "08:00", IsAvailable: true},
			{StartTime: "08:00", EndTime: "09:00", IsAvailable: false},
		},
	}
	require.NoError(t, c.Set(ctx, 1, date, version(t, c, 1, date), availability))
	require.NoError(t, c.Set(ctx, 1, nextDay, version(t, c, 1, nextDay), availability))
	assert.True(t, mr.Exists("availability:court:1:2025-08-21"))

	got, ok, err := c.Get(ctx, 1, date)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, availability.Slots, got.Slots)
	assert.True(t, got.Rate.Equal(availability.Rate))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, 1, date)
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after ttl")

	require.NoError(t, c.Set(ctx, 1, date, version(t, c, 1, date), availability))
	require.NoError(t, c.Invalidate(ctx, 1, date, nextDay))
	assert.False(t, mr.Exists("availability:court:1:2025-08-21"))
	assert.False(t, mr.Exists("availability:court:1:2025-08-22"))
}

func TestRedisAvailabilityCache_CorruptedEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set("availability:court:1:2025-08-21", "{not json"))

	_, _, err := NewRedisAvailabilityCache(client, time.Minute).
		Get(context.Background(), 1, time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestRedisAvailabilityCache_InvalidateAll(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisAvailabilityCache(client, time.Minute)
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)

	for courtID := int64(1); courtID <= 3; courtID++ {
		for day := 0; day < 50; day++ {
			d := date.AddDate(0, 0, day)
			require.NoError(t, c.Set(ctx, courtID, d, version(t, c, courtID, d), &domain.Availability{CourtID: courtID}))
		}
	}
	require.NoError(t, mr.Set("lock:court:1:2025-08-21", "token"))

	require.NoError(t, c.InvalidateAll(ctx))

	for _, k := range mr.Keys() {
		assert.NotContains(t, k, "availability:court:")
	}
	assert.True(t, mr.Exists("lock:court:1:2025-08-21"))

	for courtID := int64(1); courtID <= 3; courtID++ {
		_, hit, err := c.Get(ctx, courtID, date.AddDate(0, 0, 49))
		require.NoError(t, err)
		assert.False(t, hit, "court %d still served from cache", courtID)
	}
}

func TestRedisAvailabilityCache_SetAfterInvalidateIsRejected(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisAvailabilityCache(client, time.Minute)
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	stale := &domain.Availability{CourtID: 1, Rate: decimal.NewFromInt(600000)}

	tests := []struct {
		name       string
		invalidate func() error
	}{
		{name: "same day written", invalidate: func() error { return c.Invalidate(ctx, 1, date) }},
		{name: "rate changed", invalidate: func() error { return c.InvalidateAll(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := version(t, c, 1, date)
			require.NoError(t, tt.invalidate())

			err := c.Set(ctx, 1, date, before, stale)
			assert.ErrorIs(t, err, ErrVersionChanged)

			_, hit, err := c.Get(ctx, 1, date)
			require.NoError(t, err)
			assert.False(t, hit)

			require.NoError(t, c.Set(ctx, 1, date, version(t, c, 1, date), stale))
			_, hit, err = c.Get(ctx, 1, date)
			require.NoError(t, err)
			assert.True(t, hit)
		})
	}
}

func TestRedisAvailabilityCache_OtherDaysKeepTheirVersion(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisAvailabilityCache(client, time.Minute)
	ctx := context.Background()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	nextDay := date.AddDate(0, 0, 1)

	before := version(t, c, 2, nextDay)
	require.NoError(t, c.Invalidate(ctx, 1, date, nextDay))
	require.NoError(t, c.Invalidate(ctx, 2, date))

	assert.Equal(t, before, version(t, c, 2, nextDay))
	assert.NoError(t, c.Set(ctx, 2, nextDay, before, &domain.Availability{CourtID: 2}))
}
