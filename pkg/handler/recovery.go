package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AccelByte/extend-cognitive-gate/pkg/common"
	"github.com/AccelByte/extend-cognitive-gate/pkg/recovery"
)

// GetRecovery handles GET /v1/users/{userID}/recovery. The stored checkpoint
// is never mutated by a read; decay is applied on the fly.
func (g *Gate) GetRecovery(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "Gate.GetRecovery")
	defer scope.Finish()

	userID := chi.URLParam(r, "userID")
	scope.AddBaggage("userId", userID)

	state, err := g.userState.GetUserGateState(scope.Ctx, userID)
	if err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to load user state")
		return
	}

	writeJSON(w, http.StatusOK, recoveryResponse{
		Value:       recovery.CurrentRecovery(state.Recovery, g.now(), g.decay),
		HasBaseline: state.Recovery.HasBaseline,
	})
}

type recoveryResponse struct {
	Value       float64 `json:"value"`
	HasBaseline bool    `json:"hasBaseline"`
}

// PostRecoveryBaseline handles POST /v1/users/{userID}/recovery/baseline.
// Seeds the recovery checkpoint from onboarding answers; idempotent, so a
// retried onboarding call cannot reset an established baseline.
func (g *Gate) PostRecoveryBaseline(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "Gate.PostRecoveryBaseline")
	defer scope.Finish()

	userID := chi.URLParam(r, "userID")
	scope.AddBaggage("userId", userID)

	var req struct {
		Seed *recovery.OnboardingSeed `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	state, err := g.userState.GetUserGateState(scope.Ctx, userID)
	if err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to load user state")
		return
	}

	now := g.now()
	initialized := !state.Recovery.HasBaseline
	state.Recovery = recovery.InitializeBaseline(state.Recovery, req.Seed, now)

	if initialized {
		if err := g.userState.UpdateUserGateState(scope.Ctx, userID, state); err != nil {
			scope.TraceError(err)
			writeError(w, http.StatusInternalServerError, "failed to persist user state")
			return
		}
	}

	writeJSON(w, http.StatusOK, baselineResponse{
		Value:       recovery.CurrentRecovery(state.Recovery, now, g.decay),
		Initialized: initialized,
	})
}

type baselineResponse struct {
	Value       float64 `json:"value"`
	Initialized bool    `json:"initialized"`
}

// PostRecoveryAction handles POST /v1/users/{userID}/recovery/actions,
// crediting a completed detox or walking action against the decayed value.
func (g *Gate) PostRecoveryAction(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "Gate.PostRecoveryAction")
	defer scope.Finish()

	userID := chi.URLParam(r, "userID")
	scope.AddBaggage("userId", userID)

	var req struct {
		DetoxMinutes   int `json:"detoxMinutes"`
		WalkingMinutes int `json:"walkingMinutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DetoxMinutes < 0 || req.WalkingMinutes < 0 {
		writeError(w, http.StatusBadRequest, "minutes must be non-negative")
		return
	}

	state, err := g.userState.GetUserGateState(scope.Ctx, userID)
	if err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to load user state")
		return
	}

	now := g.now()
	if !state.Recovery.HasBaseline {
		state.Recovery = recovery.InitializeBaseline(state.Recovery, nil, now)
	}

	result := recovery.ApplyRecoveryAction(
		state.Recovery.Value, state.Recovery.LastTimestamp,
		req.DetoxMinutes, req.WalkingMinutes, now, g.decay)

	state.Recovery.Value = result.NewValue
	state.Recovery.LastTimestamp = result.NewTimestamp

	if err := g.userState.UpdateUserGateState(scope.Ctx, userID, state); err != nil {
		scope.TraceError(err)
		writeError(w, http.StatusInternalServerError, "failed to persist user state")
		return
	}

	writeJSON(w, http.StatusOK, recoveryResponse{
		Value:       result.NewValue,
		HasBaseline: true,
	})
}
