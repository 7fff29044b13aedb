package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AccelByte/extend-cognitive-gate/pkg/combo"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	comboLogRetention = 35 * 24 * time.Hour
	comboLogKeyPrefix = "cognitive_gate:combos:"
)

// RedisComboLog implements ComboLog on a per-user, per-game sorted set
// scored by completion timestamp. Records carry the full candidate so
// similarity checks can run against recent history.
type RedisComboLog struct {
	client *redis.Client
	cfg    RedisComboLogConfig
}

type RedisComboLogConfig struct{}

// NewRedisComboLog creates a new Redis-backed combo log.
func NewRedisComboLog(client *redis.Client, cfg RedisComboLogConfig) *RedisComboLog {
	return &RedisComboLog{
		client: client,
		cfg:    cfg,
	}
}

func makeComboLogKey(userID, gameName string) string {
	return fmt.Sprintf("%s%s:%s", comboLogKeyPrefix, userID, gameName)
}

// Append adds one combo record for a completed session.
func (r *RedisComboLog) Append(ctx context.Context, userID string, record combo.Record) error {
	key := makeComboLogKey(userID, record.GameName)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal combo record: %w", err)
	}

	member := &redis.Z{
		Score:  float64(record.CompletedAt.UnixMilli()),
		Member: data,
	}
	if err := r.client.ZAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("failed to append combo record: %w", err)
	}
	r.client.Expire(ctx, key, comboLogRetention)

	logrus.Debugf("appended combo for user %s game %s: hash=%s", userID, record.GameName, record.ComboHash)
	return nil
}

// Recent returns up to `limit` combo records for the game, most recent
// first, which matches how exclusion windows index history.
func (r *RedisComboLog) Recent(ctx context.Context, userID, gameName string, limit int) ([]combo.Record, error) {
	key := makeComboLogKey(userID, gameName)

	raw, err := r.client.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query combo log: %w", err)
	}

	records := make([]combo.Record, 0, len(raw))
	for _, entry := range raw {
		var record combo.Record
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			logrus.Warnf("skipping unreadable combo record for user %s: %v", userID, err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
