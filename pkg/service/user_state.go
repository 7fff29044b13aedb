package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// userStateStoreDefaultTTL keeps dormant users around for a season.
	userStateStoreDefaultTTL = 90 * 24 * time.Hour
	// userStateStoreKeyPrefix is the prefix for all gate state keys.
	userStateStoreKeyPrefix = "cognitive_gate:user_state:"
)

// RedisUserStateStore implements UserStateStore using Redis.
type RedisUserStateStore struct {
	client *redis.Client
	cfg    RedisUserStateStoreConfig
}

type RedisUserStateStoreConfig struct{}

// NewRedisUserStateStore creates a new Redis-backed user state store.
func NewRedisUserStateStore(
	client *redis.Client,
	cfg RedisUserStateStoreConfig,
) *RedisUserStateStore {
	return &RedisUserStateStore{
		client: client,
		cfg:    cfg,
	}
}

func makeUserStateStoreKey(userID string) string {
	return fmt.Sprintf("%s%s", userStateStoreKeyPrefix, userID)
}

// GetUserGateState retrieves the gate state for a user from Redis. A user
// with no record yet gets the default state; the recovery baseline is
// initialized separately and idempotently by the recovery flow.
func (r *RedisUserStateStore) GetUserGateState(ctx context.Context, userID string) (*UserGateState, error) {
	key := makeUserStateStoreKey(userID)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		logrus.Debugf("no existing gate state for user %s, returning default state", userID)
		return NewUserGateState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gate state: %w", err)
	}

	var state UserGateState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gate state: %w", err)
	}

	return &state, nil
}

// UpdateUserGateState writes the gate state for a user to Redis.
func (r *RedisUserStateStore) UpdateUserGateState(ctx context.Context, userID string, state *UserGateState) error {
	key := makeUserStateStoreKey(userID)

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal gate state: %w", err)
	}

	if err := r.client.Set(ctx, key, data, userStateStoreDefaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to set gate state: %w", err)
	}

	logrus.Debugf("updated gate state for user %s", userID)
	return nil
}
