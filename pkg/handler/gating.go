package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AccelByte/extend-cognitive-gate/pkg/common"
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
	"github.com/AccelByte/extend-cognitive-gate/pkg/metrics"
)

// GetGates handles GET /v1/users/{userID}/gates. It evaluates every game
// type against a single snapshot so one response is internally consistent.
func (g *Gate) GetGates(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "Gate.GetGates")
	defer scope.Finish()

	userID := chi.URLParam(r, "userID")
	scope.AddBaggage("userId", userID)

	eval, err := g.loadEvaluation(scope, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user state")
		return
	}

	overview := g.engine.EvaluateAll(eval.snapshot)
	for game, availability := range overview.Games {
		metrics.GatingDecisionsTotal.WithLabelValues(
			string(game), string(availability.Status), string(availability.ReasonCode)).Inc()
	}

	writeJSON(w, http.StatusOK, gatesResponse{
		Games:             overview.Games,
		SafetyRuleActive:  overview.SafetyRuleActive,
		RecoveryEffective: eval.snapshot.RecoveryEffective,
		Caps:              eval.snapshot.Caps,
		MetricsKnown:      eval.snapshot.MetricsKnown,
	})
}

type gatesResponse struct {
	Games             map[gating.GameType]gating.Availability `json:"games"`
	SafetyRuleActive  bool                                    `json:"safetyRuleActive"`
	RecoveryEffective float64                                 `json:"recoveryEffective"`
	Caps              gating.Caps                             `json:"caps"`
	MetricsKnown      bool                                    `json:"metricsKnown"`
}
