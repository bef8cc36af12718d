package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelgo/travel-booking/internal/repository"
)

const (
	defaultCountTTL = 5 * time.Minute

	// generationTTL outlives any read-through window by a wide margin. An
	// expired generation reads as zero again.
	generationTTL = 24 * time.Hour
)

// setIfGeneration writes the count only while the tour's generation still
// matches the one observed before the database read.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[2] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// WishlistCountCache implements repository.WishlistCountCache using Redis.
// Every invalidation bumps a per-tour generation so a read-through that
// started before a committed change cannot store its stale count.
type WishlistCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWishlistCountCache creates a Redis-backed count cache. Entries expire
// after ttl so a missed invalidation heals on its own.
func NewWishlistCountCache(client *redis.Client, ttl time.Duration) *WishlistCountCache {
	if ttl <= 0 {
		ttl = defaultCountTTL
	}
	return &WishlistCountCache{
		client: client,
		ttl:    ttl,
	}
}

// Both keys share a hash tag so the script stays on one cluster slot.
func countKey(tourID string) string {
	return "wishlist:{" + tourID + "}:count"
}

func generationKey(tourID string) string {
	return "wishlist:{" + tourID + "}:gen"
}

// Get returns the cached count for a tour along with its current generation.
func (c *WishlistCountCache) Get(ctx context.Context, tourID string) (repository.CountSnapshot, error) {
	vals, err := c.client.MGet(ctx, countKey(tourID), generationKey(tourID)).Result()
	if err != nil {
		return repository.CountSnapshot{}, fmt.Errorf("redis get wishlist count: %w", err)
	}

	var snap repository.CountSnapshot
	if raw, ok := vals[1].(string); ok {
		snap.Generation, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return repository.CountSnapshot{}, fmt.Errorf("redis get wishlist count: generation: %w", err)
		}
	}
	if raw, ok := vals[0].(string); ok {
		snap.Count, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return repository.CountSnapshot{}, fmt.Errorf("redis get wishlist count: %w", err)
		}
		snap.Hit = true
	}

	return snap, nil
}

// Set caches the count for a tour with the configured TTL, provided no
// invalidation happened since generation was read. It reports whether the
// count was stored.
func (c *WishlistCountCache) Set(ctx context.Context, tourID string, count, generation int64) (bool, error) {
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{countKey(tourID), generationKey(tourID)},
		count, generation, c.ttl.Milliseconds(),
	).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("redis set wishlist count: %w", err)
	}

	return stored == 1, nil
}

// Invalidate bumps the tour's generation and removes its cached count.
func (c *WishlistCountCache) Invalidate(ctx context.Context, tourID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(tourID))
		pipe.Expire(ctx, generationKey(tourID), generationTTL)
		pipe.Del(ctx, countKey(tourID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del wishlist count: %w", err)
	}

	return nil
}
