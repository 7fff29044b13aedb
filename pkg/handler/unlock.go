package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AccelByte/extend-cognitive-gate/pkg/common"
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
	"github.com/AccelByte/extend-cognitive-gate/pkg/metrics"
	"github.com/AccelByte/extend-cognitive-gate/pkg/unlock"
)

// PostUnlock handles POST /v1/users/{userID}/games/{game}/unlocks: a
// rate-limited bypass request for withheld content. Strictly downstream of
// gating; PROTECTION statuses are never bypassable here.
func (g *Gate) PostUnlock(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "Gate.PostUnlock")
	defer scope.Finish()

	userID := chi.URLParam(r, "userID")
	game := gating.GameType(chi.URLParam(r, "game"))
	scope.AddBaggage("userId", userID)
	scope.AddBaggage("game", string(game))

	var req struct {
		// ItemID optionally names a platform item granted alongside the
		// unlock.
		ItemID string `json:"itemId"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	eval, err := g.loadEvaluation(scope, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user state")
		return
	}
	availability := g.engine.Evaluate(game, eval.snapshot)

	used, err := g.unlockBudget.UsedToday(scope.Ctx, userID, g.now())
	if err != nil {
		// The budget is a guard; an unreadable counter must not hand out
		// unmetered overrides.
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to load unlock budget")
		return
	}

	decision := g.unlocks.Decide(availability, used)

	if decision.Allowed {
		count, err := g.unlockBudget.Consume(scope.Ctx, userID, g.now())
		if err != nil {
			scope.TraceError(err)
			writeError(w, http.StatusInternalServerError, "failed to consume unlock budget")
			return
		}
		if count > g.unlocks.DailyLimit() {
			// Another device took the last slot between the read and the
			// increment. The counter already reflects the overshoot, so deny.
			decision = unlock.Decision{Allowed: false, Outcome: unlock.OutcomeBudgetExhausted}
		} else {
			decision.Remaining = g.unlocks.DailyLimit() - count
		}
	}

	metrics.UnlockDecisionsTotal.WithLabelValues(string(decision.Outcome)).Inc()

	itemGranted := false
	if decision.Allowed && g.entitlements != nil && req.ItemID != "" {
		if err := g.entitlements.GrantEntitlement(scope.Ctx, userID, req.ItemID, 1); err != nil {
			scope.Log.Warnf("unlock granted but item grant failed for user %s: %v", userID, err)
		} else {
			itemGranted = true
		}
	}

	writeJSON(w, http.StatusOK, unlockResponse{
		Decision:    decision,
		ReasonCode:  availability.ReasonCode,
		ItemGranted: itemGranted,
	})
}

type unlockResponse struct {
	unlock.Decision
	ReasonCode  gating.ReasonCode `json:"reasonCode,omitempty"`
	ItemGranted bool              `json:"itemGranted"`
}
