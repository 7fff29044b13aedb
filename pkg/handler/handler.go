package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/AccelByte/extend-cognitive-gate/pkg/combo"
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
	"github.com/AccelByte/extend-cognitive-gate/pkg/plan"
	"github.com/AccelByte/extend-cognitive-gate/pkg/recovery"
	"github.com/AccelByte/extend-cognitive-gate/pkg/service"
	"github.com/AccelByte/extend-cognitive-gate/pkg/unlock"
)

const (
	// CompletionLookback covers every rolling window derived from the
	// completion log (widest cap query is 7 days; the RQ score window can
	// reach further back on sparse schedules).
	CompletionLookback = 35 * 24 * time.Hour

	// CalibrationSessionCount is how many drill completions end the
	// first-week calibration phase.
	CalibrationSessionCount = 5

	// ComboHistoryLimit bounds how much fingerprint history is loaded per
	// generation request. Comfortably above the widest exclusion window and
	// the 7-day near-duplicate window on capped schedules.
	ComboHistoryLimit = 50
)

// Gate bundles the engines and stores behind the HTTP API. Engines are pure;
// every handler does read-compute-write through the stores.
type Gate struct {
	stats        service.SkillStatsProvider
	userState    service.UserStateStore
	completions  service.CompletionLog
	combos       service.ComboLog
	unlockBudget service.UnlockBudgetStore
	entitlements service.EntitlementGranter

	engine     *gating.Engine
	plans      *plan.Table
	decay      recovery.DecayStrategy
	sessions   *combo.SessionEngine
	unlocks    *unlock.Engine
	generators map[gating.GameType]combo.Generator

	now func() time.Time
}

// Deps are the dependencies for a Gate. Entitlements may be nil; unlock
// grants then skip the platform item grant.
type Deps struct {
	Stats        service.SkillStatsProvider
	UserState    service.UserStateStore
	Completions  service.CompletionLog
	Combos       service.ComboLog
	UnlockBudget service.UnlockBudgetStore
	Entitlements service.EntitlementGranter

	Engine     *gating.Engine
	Plans      *plan.Table
	Decay      recovery.DecayStrategy
	Sessions   *combo.SessionEngine
	Unlocks    *unlock.Engine
	Generators map[gating.GameType]combo.Generator

	// Now overrides the clock, mostly useful for testing.
	Now func() time.Time
}

// NewGate creates the handler set.
func NewGate(deps Deps) *Gate {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Gate{
		stats:        deps.Stats,
		userState:    deps.UserState,
		completions:  deps.Completions,
		combos:       deps.Combos,
		unlockBudget: deps.UnlockBudget,
		entitlements: deps.Entitlements,
		engine:       deps.Engine,
		plans:        deps.Plans,
		decay:        deps.Decay,
		sessions:     deps.Sessions,
		unlocks:      deps.Unlocks,
		generators:   deps.Generators,
		now:          now,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
