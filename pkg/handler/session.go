package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AccelByte/extend-cognitive-gate/pkg/combo"
	"github.com/AccelByte/extend-cognitive-gate/pkg/common"
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
	"github.com/AccelByte/extend-cognitive-gate/pkg/metrics"
)

// PostSession handles POST /v1/users/{userID}/games/{game}/sessions. The
// gate is checked first; an admitted request then runs the generate-validate
// loop against the user's fingerprint history. Generation never refuses: an
// exhausted content pool degrades to a perturbed repeat.
func (g *Gate) PostSession(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "Gate.PostSession")
	defer scope.Finish()

	userID := chi.URLParam(r, "userID")
	game := gating.GameType(chi.URLParam(r, "game"))
	scope.AddBaggage("userId", userID)
	scope.AddBaggage("game", string(game))

	generator, ok := g.generators[game]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown game type")
		return
	}

	eval, err := g.loadEvaluation(scope, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user state")
		return
	}

	availability := g.engine.Evaluate(game, eval.snapshot)
	metrics.GatingDecisionsTotal.WithLabelValues(
		string(game), string(availability.Status), string(availability.ReasonCode)).Inc()
	if availability.Status != gating.StatusEnabled {
		writeJSON(w, http.StatusConflict, sessionDeniedResponse{Availability: availability})
		return
	}

	now := g.now()
	recent, err := g.combos.Recent(scope.Ctx, userID, string(game), ComboHistoryLimit)
	if err != nil {
		// History checks degrade rather than block admitted content.
		scope.Log.Warnf("combo history unavailable for user %s game %s: %v", userID, game, err)
		metrics.StoreFailOpenTotal.WithLabelValues("combo_log").Inc()
		recent = nil
	}

	result := g.sessions.GenerateValidSession(
		generator, recent, combo.SystemType(gating.SystemOf(game)), now)

	if result.DuplicatesRejected > 0 {
		metrics.DedupRejectionsTotal.WithLabelValues(string(game)).Add(float64(result.DuplicatesRejected))
	}
	if result.FallbackUsed {
		metrics.FallbackSessionsTotal.WithLabelValues(string(game)).Inc()
	}

	comboRecord := combo.Record{
		ComboHash:   result.ComboHash,
		CompletedAt: now,
		Difficulty:  result.Session.Difficulty,
		GameName:    string(game),
		Candidate:   result.Session,
	}
	if err := g.combos.Append(scope.Ctx, userID, comboRecord); err != nil {
		scope.Log.Warnf("failed to record combo for user %s game %s: %v", userID, game, err)
	}

	writeJSON(w, http.StatusCreated, result)
}

type sessionDeniedResponse struct {
	Availability gating.Availability `json:"availability"`
}
