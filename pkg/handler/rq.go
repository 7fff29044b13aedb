package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AccelByte/extend-cognitive-gate/pkg/common"
	"github.com/AccelByte/extend-cognitive-gate/pkg/rq"
	"github.com/AccelByte/extend-cognitive-gate/pkg/service"
)

// GetRQ handles GET /v1/users/{userID}/rq. RQ inputs fail closed: a missing
// skill snapshot or completion history is an error, never a fabricated
// score.
func (g *Gate) GetRQ(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "Gate.GetRQ")
	defer scope.Finish()

	userID := chi.URLParam(r, "userID")
	scope.AddBaggage("userId", userID)

	now := g.now()

	metricSnapshot, err := g.stats.FetchMetricSnapshot(scope.Ctx, userID)
	if err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusBadGateway, "cognitive metrics unavailable")
		return
	}

	records, err := g.completions.ListSince(scope.Ctx, userID, now.Add(-CompletionLookback))
	if err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to load completion history")
		return
	}

	lastS2, lastTask := service.LastActivity(records)
	result := rq.Calculate(
		metricSnapshot.States.S2(),
		service.S2GameScores(records),
		service.TaskCompletions(records),
		lastS2, lastTask, now)

	writeJSON(w, http.StatusOK, result)
}
