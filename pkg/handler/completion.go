package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AccelByte/extend-cognitive-gate/pkg/common"
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
	"github.com/AccelByte/extend-cognitive-gate/pkg/metrics"
	"github.com/AccelByte/extend-cognitive-gate/pkg/rq"
	"github.com/AccelByte/extend-cognitive-gate/pkg/service"
)

type completionRequest struct {
	SystemType  string  `json:"systemType"`
	GameType    string  `json:"gameType"`
	SkillRouted string  `json:"skillRouted"`
	ContentType string  `json:"contentType"`
	Score       float64 `json:"score"`

	// Session-quality components, only meaningful for System-2 drills.
	NormalizedAccuracy        float64 `json:"normalizedAccuracy"`
	ResponseTimingConsistency float64 `json:"responseTimingConsistency"`
	DeliberationCoherence     float64 `json:"deliberationCoherence"`

	// CompletedAt defaults to the server clock when omitted.
	CompletedAt *time.Time `json:"completedAt"`
}

func (req *completionRequest) validate() string {
	if req.ContentType != "" {
		switch rq.TaskType(req.ContentType) {
		case rq.TaskBook, rq.TaskArticle, rq.TaskPodcast:
			return ""
		}
		return "unknown contentType"
	}
	if req.SystemType != string(gating.SystemOne) && req.SystemType != string(gating.SystemTwo) {
		return "systemType must be s1 or s2"
	}
	if req.GameType == "" {
		return "gameType required for drill completions"
	}
	return ""
}

// PostCompletion handles POST /v1/users/{userID}/completions: one finished
// drill session or content task. The record is appended to the log that
// every rolling window is recomputed from; System-2 drills additionally move
// the persisted consistency accumulator.
func (g *Gate) PostCompletion(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "Gate.PostCompletion")
	defer scope.Finish()

	userID := chi.URLParam(r, "userID")
	scope.AddBaggage("userId", userID)

	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	completedAt := g.now()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	record := service.CompletionRecord{
		UserID:      userID,
		SystemType:  req.SystemType,
		SkillRouted: req.SkillRouted,
		GameType:    req.GameType,
		ContentType: req.ContentType,
		CompletedAt: completedAt,
		Score:       req.Score,
	}
	if err := g.completions.Append(scope.Ctx, record); err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}

	state, err := g.userState.GetUserGateState(scope.Ctx, userID)
	if err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to load user state")
		return
	}

	if !record.IsContentTask() && record.SystemType == string(gating.SystemTwo) {
		quality := rq.SessionQuality(
			req.NormalizedAccuracy, req.ResponseTimingConsistency, req.DeliberationCoherence)
		delta := rq.ConsistencyDelta(quality)
		state.ConsistencyAccumulator = rq.ApplyConsistencyDelta(state.ConsistencyAccumulator, delta)
		scope.Log.Debugf("consistency delta for user %s: quality=%.2f delta=%+d accumulator=%.0f",
			userID, quality, delta, state.ConsistencyAccumulator)
	}

	g.observeCapRace(scope, userID, record)

	if !record.IsContentTask() && !state.Calibrated {
		state.Calibrated = g.calibrationComplete(scope, userID)
	}

	if err := g.userState.UpdateUserGateState(scope.Ctx, userID, state); err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to persist user state")
		return
	}

	writeJSON(w, http.StatusCreated, completionResponse{
		ConsistencyAccumulator: state.ConsistencyAccumulator,
		Calibrated:             state.Calibrated,
	})
}

type completionResponse struct {
	ConsistencyAccumulator float64 `json:"consistencyAccumulator"`
	Calibrated             bool    `json:"calibrated"`
}

// observeCapRace recounts the written window and flags completions that
// exceeded a cap, which happens when two near-simultaneous sessions both
// passed the gate. The race is accepted, only made visible.
func (g *Gate) observeCapRace(scope *common.Scope, userID string, record service.CompletionRecord) {
	if record.IsContentTask() {
		return
	}

	records, err := g.completions.ListSince(scope.Ctx, userID, record.CompletedAt.Add(-CompletionLookback))
	if err != nil {
		return
	}

	caps := service.BuildCaps(records, record.CompletedAt)
	raced := false
	switch record.SystemType {
	case string(gating.SystemOne):
		raced = caps.S1DailyUsed > gating.S1DailyMax
	case string(gating.SystemTwo):
		raced = caps.S2DailyUsed > gating.S2DailyMax
	}
	if raced {
		scope.Log.Warnf("cap exceeded after write for user %s (%s): concurrent admission", userID, record.SystemType)
		metrics.CapRaceObservedTotal.Inc()
	}
}

// calibrationComplete checks whether the user has finished enough drills to
// leave the first-week calibration phase.
func (g *Gate) calibrationComplete(scope *common.Scope, userID string) bool {
	records, err := g.completions.ListSince(scope.Ctx, userID, g.now().Add(-CompletionLookback))
	if err != nil {
		return false
	}

	drills := 0
	for _, r := range records {
		if !r.IsContentTask() {
			drills++
		}
	}
	return drills >= CalibrationSessionCount
}
