package gating

import (
	"github.com/AccelByte/extend-cognitive-gate/pkg/plan"
)

// GameType identifies one of the four gated drill types.
type GameType string

const (
	// GameRapidMatch is a System-1 speed drill gated on a sharpness floor.
	GameRapidMatch GameType = "rapid_match"
	// GameAttentionGrid is the System-1 attention-efficiency drill; it is
	// additionally gated on a sharpness ceiling to guard against impulsive
	// over-engagement.
	GameAttentionGrid GameType = "attention_grid"
	// GameLogicLadder is a System-2 deliberate-reasoning drill gated on
	// readiness and recovery.
	GameLogicLadder GameType = "logic_ladder"
	// GameInsightForge is the System-2 insight variant, gated on a closed
	// readiness range: too low and too high both withhold.
	GameInsightForge GameType = "insight_forge"
)

// System identifies the fast/intuitive vs. deliberate/analytical grouping.
type System string

const (
	SystemOne System = "s1"
	SystemTwo System = "s2"
)

// AllGames lists the gated game types in evaluation order.
var AllGames = []GameType{GameRapidMatch, GameAttentionGrid, GameLogicLadder, GameInsightForge}

// SystemOf returns which skill grouping a game belongs to.
func SystemOf(game GameType) System {
	switch game {
	case GameLogicLadder, GameInsightForge:
		return SystemTwo
	default:
		return SystemOne
	}
}

// IsInsight reports whether a game is the insight variant.
func IsInsight(game GameType) bool {
	return game == GameInsightForge
}

// Status is the admission decision for one game type. The engine always
// returns a definite status, never "unknown".
type Status string

const (
	// StatusEnabled means the drill is currently permitted.
	StatusEnabled Status = "ENABLED"
	// StatusWithheld means a cognitive-state threshold blocks the drill.
	StatusWithheld Status = "WITHHELD"
	// StatusProtection means a system-level safeguard (cap or plan recovery
	// floor) blocks the drill regardless of cognitive state.
	StatusProtection Status = "PROTECTION"
)

// ReasonCode explains a non-enabled status. Resolution always yields exactly
// one code even when several violations hold simultaneously.
type ReasonCode string

const (
	ReasonCapReachedDailyS1       ReasonCode = "CAP_REACHED_DAILY_S1"
	ReasonCapReachedDailyS2       ReasonCode = "CAP_REACHED_DAILY_S2"
	ReasonCapReachedWeeklyInsight ReasonCode = "CAP_REACHED_WEEKLY_INSIGHT"
	ReasonCapReachedWeeklyS2      ReasonCode = "CAP_REACHED_WEEKLY_S2"
	ReasonPlanRecoveryFloor       ReasonCode = "PLAN_RECOVERY_FLOOR"
	ReasonMetricsUnavailable      ReasonCode = "METRICS_UNAVAILABLE"
	ReasonRecoveryTooLow          ReasonCode = "RECOVERY_TOO_LOW"
	ReasonSharpnessTooLow         ReasonCode = "SHARPNESS_TOO_LOW"
	ReasonSharpnessTooHigh        ReasonCode = "SHARPNESS_TOO_HIGH"
	ReasonReadinessTooLow         ReasonCode = "READINESS_TOO_LOW"
	ReasonReadinessTooHigh        ReasonCode = "READINESS_TOO_HIGH"
)

// Detail reports the metric behind a non-enabled status so presentation
// surfaces can explain the decision.
type Detail struct {
	CurrentValue  float64 `json:"currentValue"`
	RequiredValue float64 `json:"requiredValue"`
	Metric        string  `json:"metric"`
}

// Availability is the gating result for one game type.
type Availability struct {
	Type          GameType   `json:"type"`
	Status        Status     `json:"status"`
	ReasonCode    ReasonCode `json:"reasonCode,omitempty"`
	Details       *Detail    `json:"details,omitempty"`
	UnlockActions []string   `json:"unlockActions,omitempty"`
}

// Caps carries the rolling-window usage counts for the evaluation. Counts
// are recomputed from the append-only completion log per evaluation, never
// cached beyond the enclosing request.
type Caps struct {
	S1DailyUsed       int `json:"s1DailyUsed"`
	S2DailyUsed       int `json:"s2DailyUsed"`
	InsightWeeklyUsed int `json:"insightWeeklyUsed"`
	S2WeeklyUsed      int `json:"s2WeeklyUsed"`
}

// Snapshot is the ephemeral per-evaluation input. MetricsKnown is false when
// the upstream metric fetch failed or the user has no tracked skills yet; the
// engine then resolves conservatively instead of enabling content.
type Snapshot struct {
	Sharpness         float64        `json:"sharpness"`
	Readiness         float64        `json:"readiness"`
	RecoveryEffective float64        `json:"recoveryEffective"`
	MetricsKnown      bool           `json:"metricsKnown"`
	Caps              Caps           `json:"caps"`
	Plan              plan.Modifiers `json:"plan"`
	Calibrated        bool           `json:"calibrated"`
}

// Overview is the aggregate gating result across all game types.
type Overview struct {
	Games map[GameType]Availability `json:"games"`
	// SafetyRuleActive flags that System-2 content is broadly withheld due
	// to low recovery while the user has not completed first-week
	// calibration. Computed once from the aggregate, not per game, so the
	// UI can explain systemic withholding distinctly from per-item reasons.
	SafetyRuleActive bool `json:"safetyRuleActive"`
}
