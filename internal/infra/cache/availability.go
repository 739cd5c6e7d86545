// Package cache stores computed availability per court-day.
// Every court-day has a version: writers bump it on invalidation, and Set stores an entry
// only if the version read before loading bookings is still current. A reader that raced
// with a write therefore cannot put a stale answer back into the cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// ErrVersionChanged is returned by Set when the court-day was invalidated after Version
var ErrVersionChanged = errors.New("cache: availability version changed")

// AvailabilityCache cache of availability answers
type AvailabilityCache interface {
	Get(ctx context.Context, courtID int64, date time.Time) (*domain.Availability, bool, error)
	Version(ctx context.Context, courtID int64, date time.Time) (string, error)
	Set(ctx context.Context, courtID int64, date time.Time, version string, availability *domain.Availability) error
	Invalidate(ctx context.Context, courtID int64, dates ...time.Time) error
	InvalidateAll(ctx context.Context) error
}

// setIfCurrent stores KEYS[1] only while "<epoch>:<generation>" still equals ARGV[2]
var setIfCurrent = redis.NewScript(`
local epoch = redis.call('GET', KEYS[2]) or '0'
local generation = redis.call('GET', KEYS[3]) or '0'
if epoch .. ':' .. generation ~= ARGV[2] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// RedisAvailabilityCache JSON values under availability:court:<id>:<date>,
// generations under availability:gen:<id>:<date> and a global epoch bumped by InvalidateAll
type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{client: client, ttl: ttl}
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, courtID int64, date time.Time) (*domain.Availability, bool, error) {
	raw, err := c.client.Get(ctx, key(courtID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get availability: %w", err)
	}

	var availability domain.Availability
	if err := json.Unmarshal(raw, &availability); err != nil {
		return nil, false, fmt.Errorf("cache: decode availability: %w", err)
	}
	return &availability, true, nil
}

// Version returns the current version of a court-day, call it before loading bookings
func (c *RedisAvailabilityCache) Version(ctx context.Context, courtID int64, date time.Time) (string, error) {
	values, err := c.client.MGet(ctx, epochKey, generationKey(courtID, date)).Result()
	if err != nil {
		return "", fmt.Errorf("cache: get availability version: %w", err)
	}
	return versionOf(values[0]) + ":" + versionOf(values[1]), nil
}

// Set stores availability unless the court-day was invalidated since version was read
func (c *RedisAvailabilityCache) Set(ctx context.Context, courtID int64, date time.Time, version string, availability *domain.Availability) error {
	raw, err := json.Marshal(availability)
	if err != nil {
		return fmt.Errorf("cache: encode availability: %w", err)
	}

	keys := []string{key(courtID, date), epochKey, generationKey(courtID, date)}
	stored, err := setIfCurrent.Run(ctx, c.client, keys, raw, version, c.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("cache: set availability: %w", err)
	}
	if stored == 0 {
		return fmt.Errorf("%w: court %d on %s", ErrVersionChanged, courtID, date.Format(domain.DateFormat))
	}
	return nil
}

// Invalidate drops the entries and bumps the generation of every given day
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, courtID int64, dates ...time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range dates {
			generation := generationKey(courtID, d)
			pipe.Del(ctx, key(courtID, d))
			pipe.Incr(ctx, generation)
			pipe.PExpire(ctx, generation, c.generationTTL())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: invalidate availability: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached court-day, used when a rate changes.
// Keys are collected before deleting: removing keys mid-SCAN can make the cursor skip entries.
func (c *RedisAvailabilityCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, epochKey).Err(); err != nil {
		return fmt.Errorf("cache: bump availability epoch: %w", err)
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: scan availability keys: %w", err)
	}

	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := c.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("cache: invalidate all: %w", err)
		}
	}
	return nil
}

const (
	keyPrefix        = "availability:court:"
	generationPrefix = "availability:gen:"
	epochKey         = "availability:epoch"
	scanBatch        = 100
)

// generationTTL outlives the entry, an expired generation reads as "0" and still fails older versions
func (c *RedisAvailabilityCache) generationTTL() time.Duration {
	return c.ttl + time.Minute
}

func key(courtID int64, date time.Time) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, courtID, date.Format(domain.DateFormat))
}

func generationKey(courtID int64, date time.Time) string {
	return fmt.Sprintf("%s%d:%s", generationPrefix, courtID, date.Format(domain.DateFormat))
}

func versionOf(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return "0"
}

// Noop cache that never hits
type Noop struct{}

func (Noop) Get(context.Context, int64, time.Time) (*domain.Availability, bool, error) {
	return nil, false, nil
}

func (Noop) Version(context.Context, int64, time.Time) (string, error) { return "", nil }

func (Noop) Set(context.Context, int64, time.Time, string, *domain.Availability) error { return nil }

func (Noop) Invalidate(context.Context, int64, ...time.Time) error { return nil }

func (Noop) InvalidateAll(context.Context) error { return nil }
