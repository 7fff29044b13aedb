package service

import "github.com/go-redis/redis/v8"

// RedisStores bundles the Redis-backed storage implementations sharing one
// client connection.
type RedisStores struct {
	UserState    *RedisUserStateStore
	Completions  *RedisCompletionLog
	Combos       *RedisComboLog
	UnlockBudget *RedisUnlockBudgetStore
}

func NewRedisStores(client *redis.Client) *RedisStores {
	return &RedisStores{
		UserState:    NewRedisUserStateStore(client, RedisUserStateStoreConfig{}),
		Completions:  NewRedisCompletionLog(client, RedisCompletionLogConfig{}),
		Combos:       NewRedisComboLog(client, RedisComboLogConfig{}),
		UnlockBudget: NewRedisUnlockBudgetStore(client, RedisUnlockBudgetStoreConfig{}),
	}
}
