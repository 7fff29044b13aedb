package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// completionLogRetention comfortably covers every rolling window the
	// engine queries (the widest is 7 days).
	completionLogRetention = 35 * 24 * time.Hour
	completionLogKeyPrefix = "cognitive_gate:completions:"
)

// RedisCompletionLog implements CompletionLog on a per-user sorted set
// scored by completion timestamp (unix milliseconds), so "today" and
// "last 7 days" become ZRANGEBYSCORE queries.
type RedisCompletionLog struct {
	client *redis.Client
	cfg    RedisCompletionLogConfig
}

type RedisCompletionLogConfig struct{}

// NewRedisCompletionLog creates a new Redis-backed completion log.
func NewRedisCompletionLog(client *redis.Client, cfg RedisCompletionLogConfig) *RedisCompletionLog {
	return &RedisCompletionLog{
		client: client,
		cfg:    cfg,
	}
}

func makeCompletionLogKey(userID string) string {
	return fmt.Sprintf("%s%s", completionLogKeyPrefix, userID)
}

// Append adds one completion record. The log is append-only; nothing is
// updated in place and time windows are applied at query time.
func (r *RedisCompletionLog) Append(ctx context.Context, record CompletionRecord) error {
	key := makeCompletionLogKey(record.UserID)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal completion record: %w", err)
	}

	member := &redis.Z{
		Score:  float64(record.CompletedAt.UnixMilli()),
		Member: data,
	}
	if err := r.client.ZAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("failed to append completion record: %w", err)
	}

	// Old entries beyond every queried window are trimmed opportunistically;
	// the TTL covers fully dormant users.
	cutoff := record.CompletedAt.Add(-completionLogRetention)
	r.client.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff.UnixMilli(), 10))
	r.client.Expire(ctx, key, completionLogRetention)

	logrus.Debugf("appended completion for user %s: system=%s game=%s content=%s",
		record.UserID, record.SystemType, record.GameType, record.ContentType)
	return nil
}

// ListSince returns all completion records at or after `since`, oldest first.
func (r *RedisCompletionLog) ListSince(ctx context.Context, userID string, since time.Time) ([]CompletionRecord, error) {
	key := makeCompletionLogKey(userID)

	raw, err := r.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query completion log: %w", err)
	}

	records := make([]CompletionRecord, 0, len(raw))
	for _, entry := range raw {
		var record CompletionRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			logrus.Warnf("skipping unreadable completion record for user %s: %v", userID, err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
