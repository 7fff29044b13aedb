package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/AccelByte/extend-cognitive-gate/pkg/combo"
	"github.com/AccelByte/extend-cognitive-gate/pkg/plan"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestGetUserGateState_NewUser(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	store := NewRedisUserStateStore(client, RedisUserStateStoreConfig{})
	ctx := context.Background()

	state, err := store.GetUserGateState(ctx, "user-123")
	if err != nil {
		t.Fatalf("GetUserGateState() error = %v", err)
	}
	if state == nil {
		t.Fatal("GetUserGateState() returned nil state")
	}

	// Default state: neutral consistency accumulator, base plan, no baseline
	if state.ConsistencyAccumulator != 50 {
		t.Errorf("ConsistencyAccumulator = %v, expected 50", state.ConsistencyAccumulator)
	}
	if state.PlanTier != plan.TierBase {
		t.Errorf("PlanTier = %v, expected %v", state.PlanTier, plan.TierBase)
	}
	if state.Recovery.HasBaseline {
		t.Error("Recovery.HasBaseline should be false for new user")
	}
	if state.Calibrated {
		t.Error("Calibrated should be false for new user")
	}
}

func TestUserGateState_RoundTrip(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	store := NewRedisUserStateStore(client, RedisUserStateStoreConfig{})
	ctx := context.Background()
	userID := "user-456"

	state, err := store.GetUserGateState(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserGateState() error = %v", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	state.Recovery.Value = 72.5
	state.Recovery.LastTimestamp = now
	state.Recovery.HasBaseline = true
	state.ConsistencyAccumulator = 64
	state.Calibrated = true
	state.PlanTier = plan.TierPlus

	if err := store.UpdateUserGateState(ctx, userID, state); err != nil {
		t.Fatalf("UpdateUserGateState() error = %v", err)
	}

	loaded, err := store.GetUserGateState(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserGateState() after update error = %v", err)
	}
	if loaded.Recovery.Value != 72.5 {
		t.Errorf("Recovery.Value = %v, expected 72.5", loaded.Recovery.Value)
	}
	if !loaded.Recovery.LastTimestamp.Equal(now) {
		t.Errorf("Recovery.LastTimestamp = %v, expected %v", loaded.Recovery.LastTimestamp, now)
	}
	if loaded.ConsistencyAccumulator != 64 {
		t.Errorf("ConsistencyAccumulator = %v, expected 64", loaded.ConsistencyAccumulator)
	}
	if loaded.PlanTier != plan.TierPlus {
		t.Errorf("PlanTier = %v, expected %v", loaded.PlanTier, plan.TierPlus)
	}
	if !loaded.Calibrated {
		t.Error("Calibrated should round-trip as true")
	}
}

func TestUserGateState_TTLSet(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	store := NewRedisUserStateStore(client, RedisUserStateStoreConfig{})
	ctx := context.Background()
	userID := "user-ttl"

	state, _ := store.GetUserGateState(ctx, userID)
	if err := store.UpdateUserGateState(ctx, userID, state); err != nil {
		t.Fatalf("UpdateUserGateState() error = %v", err)
	}

	key := makeUserStateStoreKey(userID)
	ttl := mr.TTL(key)
	if ttl <= 0 {
		t.Errorf("expected a positive TTL on %s, got %v", key, ttl)
	}
	if ttl > userStateStoreDefaultTTL {
		t.Errorf("TTL = %v, expected at most %v", ttl, userStateStoreDefaultTTL)
	}
}

func TestCompletionLog_AppendAndListSince(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	log := NewRedisCompletionLog(client, RedisCompletionLogConfig{})
	ctx := context.Background()
	userID := "user-log"
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	records := []CompletionRecord{
		{UserID: userID, SystemType: "s1", GameType: "rapid_match", CompletedAt: now.Add(-10 * 24 * time.Hour), Score: 61},
		{UserID: userID, SystemType: "s2", GameType: "logic_ladder", CompletedAt: now.Add(-3 * 24 * time.Hour), Score: 74},
		{UserID: userID, ContentType: "book", CompletedAt: now.Add(-1 * time.Hour), Score: 0},
	}
	for _, record := range records {
		if err := log.Append(ctx, record); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	// Window from 7 days ago excludes the oldest record
	got, err := log.ListSince(ctx, userID, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("ListSince() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListSince() returned %d records, expected 2", len(got))
	}
	if got[0].GameType != "logic_ladder" {
		t.Errorf("first record = %s, expected logic_ladder (oldest first)", got[0].GameType)
	}
	if !got[1].IsContentTask() {
		t.Error("second record should be the content task")
	}
}

func TestCompletionLog_EmptyUser(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	log := NewRedisCompletionLog(client, RedisCompletionLogConfig{})

	got, err := log.ListSince(context.Background(), "nobody", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSince() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListSince() returned %d records for unknown user, expected 0", len(got))
	}
}

func TestComboLog_RecentMostRecentFirst(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	log := NewRedisComboLog(client, RedisComboLogConfig{})
	ctx := context.Background()
	userID := "user-combo"
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	for i, hash := range []string{"aaaa", "bbbb", "cccc"} {
		record := combo.Record{
			ComboHash:   hash,
			GameName:    "logic_ladder",
			CompletedAt: now.Add(time.Duration(i) * time.Hour),
			Difficulty:  3,
		}
		if err := log.Append(ctx, userID, record); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := log.Recent(ctx, userID, "logic_ladder", 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() returned %d records, expected 2", len(got))
	}
	if got[0].ComboHash != "cccc" || got[1].ComboHash != "bbbb" {
		t.Errorf("Recent() order = [%s %s], expected [cccc bbbb]", got[0].ComboHash, got[1].ComboHash)
	}
}

func TestComboLog_PerGameIsolation(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	log := NewRedisComboLog(client, RedisComboLogConfig{})
	ctx := context.Background()
	now := time.Now()

	if err := log.Append(ctx, "u1", combo.Record{ComboHash: "aaaa", GameName: "rapid_match", CompletedAt: now}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := log.Recent(ctx, "u1", "logic_ladder", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recent() returned %d records for a different game, expected 0", len(got))
	}
}

func TestUnlockBudget_ConsumeIncrements(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	store := NewRedisUnlockBudgetStore(client, RedisUnlockBudgetStoreConfig{})
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	used, err := store.UsedToday(ctx, "u1", now)
	if err != nil {
		t.Fatalf("UsedToday() error = %v", err)
	}
	if used != 0 {
		t.Errorf("UsedToday() = %d before any consume, expected 0", used)
	}

	for want := 1; want <= 3; want++ {
		count, err := store.Consume(ctx, "u1", now)
		if err != nil {
			t.Fatalf("Consume() error = %v", err)
		}
		if count != want {
			t.Errorf("Consume() = %d, expected %d", count, want)
		}
	}

	used, err = store.UsedToday(ctx, "u1", now)
	if err != nil {
		t.Fatalf("UsedToday() error = %v", err)
	}
	if used != 3 {
		t.Errorf("UsedToday() = %d, expected 3", used)
	}
}

func TestUnlockBudget_DayBoundary(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	store := NewRedisUnlockBudgetStore(client, RedisUnlockBudgetStoreConfig{})
	ctx := context.Background()

	today := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)

	if _, err := store.Consume(ctx, "u1", today); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	used, err := store.UsedToday(ctx, "u1", tomorrow)
	if err != nil {
		t.Fatalf("UsedToday() error = %v", err)
	}
	if used != 0 {
		t.Errorf("UsedToday() = %d after UTC day boundary, expected 0", used)
	}
}
