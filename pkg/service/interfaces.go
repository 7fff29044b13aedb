package service

import (
	"context"
	"time"

	"github.com/AccelByte/extend-cognitive-gate/pkg/combo"
)

// Service interfaces for external dependencies and storage.
//
// You may not need to have interface and go with direct struct usage,
// but having interfaces allows easier mocking for unit tests.

// SkillStatsProvider fetches the upstream-derived cognitive metrics for a
// user. Reads fail closed: callers surface the error rather than fabricate
// a score.
type SkillStatsProvider interface {
	FetchMetricSnapshot(ctx context.Context, userID string) (*MetricSnapshot, error)
}

// EntitlementGranter grants an entitlement/item to a player, used when an
// unlock override carries a platform-side reward item.
type EntitlementGranter interface {
	GrantEntitlement(ctx context.Context, userID, itemID string, quantity int) error
}

// UserStateStore persists the per-user gate state (recovery checkpoint,
// consistency accumulator, calibration, plan tier).
type UserStateStore interface {
	GetUserGateState(ctx context.Context, userID string) (*UserGateState, error)
	UpdateUserGateState(ctx context.Context, userID string, state *UserGateState) error
}

// CompletionLog is the append-only drill/content completion log. Records are
// never deleted; rolling windows are applied at query time.
type CompletionLog interface {
	Append(ctx context.Context, record CompletionRecord) error
	ListSince(ctx context.Context, userID string, since time.Time) ([]CompletionRecord, error)
}

// ComboLog is the append-only per-user, per-game session fingerprint log.
// Recent returns records most-recent-first.
type ComboLog interface {
	Append(ctx context.Context, userID string, record combo.Record) error
	Recent(ctx context.Context, userID, gameName string, limit int) ([]combo.Record, error)
}

// UnlockBudgetStore tracks per-user daily override usage. Consume must be
// atomic so two devices cannot both take the last slot.
type UnlockBudgetStore interface {
	UsedToday(ctx context.Context, userID string, now time.Time) (int, error)
	Consume(ctx context.Context, userID string, now time.Time) (int, error)
}
