package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const unlockBudgetKeyPrefix = "cognitive_gate:unlocks:"

// RedisUnlockBudgetStore implements UnlockBudgetStore with a per-user,
// per-day counter. Consume uses INCR so concurrent devices serialize on the
// counter instead of racing a read-modify-write.
type RedisUnlockBudgetStore struct {
	client *redis.Client
	cfg    RedisUnlockBudgetStoreConfig
}

type RedisUnlockBudgetStoreConfig struct{}

// NewRedisUnlockBudgetStore creates a new Redis-backed unlock budget store.
func NewRedisUnlockBudgetStore(client *redis.Client, cfg RedisUnlockBudgetStoreConfig) *RedisUnlockBudgetStore {
	return &RedisUnlockBudgetStore{
		client: client,
		cfg:    cfg,
	}
}

// makeUnlockBudgetKey buckets by UTC calendar day, matching how the gating
// engine buckets "today".
func makeUnlockBudgetKey(userID string, now time.Time) string {
	return fmt.Sprintf("%s%s:%s", unlockBudgetKeyPrefix, userID, now.UTC().Format("2006-01-02"))
}

// UsedToday returns how many overrides the user has consumed today.
func (r *RedisUnlockBudgetStore) UsedToday(ctx context.Context, userID string, now time.Time) (int, error) {
	key := makeUnlockBudgetKey(userID, now)

	count, err := r.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get unlock budget: %w", err)
	}
	return count, nil
}

// Consume atomically takes one override slot and returns the new count.
func (r *RedisUnlockBudgetStore) Consume(ctx context.Context, userID string, now time.Time) (int, error) {
	key := makeUnlockBudgetKey(userID, now)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to consume unlock budget: %w", err)
	}
	// The counter only matters for the current day; 48h gives slack for
	// timezone-shifted clients reading yesterday's key.
	r.client.Expire(ctx, key, 48*time.Hour)

	return int(count), nil
}
