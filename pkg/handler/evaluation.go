package handler

import (
	"github.com/AccelByte/extend-cognitive-gate/pkg/common"
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
	"github.com/AccelByte/extend-cognitive-gate/pkg/metrics"
	"github.com/AccelByte/extend-cognitive-gate/pkg/recovery"
	"github.com/AccelByte/extend-cognitive-gate/pkg/service"
)

// evaluation is the assembled per-request input for the gating engine, plus
// the raw pieces other handlers reuse.
type evaluation struct {
	snapshot gating.Snapshot
	state    *service.UserGateState
	records  []service.CompletionRecord
	metrics  *service.MetricSnapshot
}

// loadEvaluation fetches everything a gating evaluation needs. Error policy
// is per data class: gate state is load-bearing and fails closed (error
// returned), while the completion log and the upstream metrics degrade —
// missing history yields zero caps, missing metrics yields MetricsKnown
// false, which the engine resolves conservatively.
func (g *Gate) loadEvaluation(scope *common.Scope, userID string) (*evaluation, error) {
	now := g.now()

	state, err := g.userState.GetUserGateState(scope.Ctx, userID)
	if err != nil {
		scope.TraceError(err)
		return nil, err
	}

	records, err := g.completions.ListSince(scope.Ctx, userID, now.Add(-CompletionLookback))
	if err != nil {
		scope.Log.Warnf("completion log unavailable for user %s, evaluating with empty history: %v", userID, err)
		metrics.StoreFailOpenTotal.WithLabelValues("completion_log").Inc()
		records = nil
	}

	snapshot := gating.Snapshot{
		RecoveryEffective: recovery.CurrentRecovery(state.Recovery, now, g.decay),
		Caps:              service.BuildCaps(records, now),
		Plan:              g.plans.Get(state.PlanTier),
		Calibrated:        state.Calibrated,
	}

	metricSnapshot, err := g.stats.FetchMetricSnapshot(scope.Ctx, userID)
	if err != nil {
		scope.Log.Warnf("cognitive metrics unavailable for user %s, resolving conservatively: %v", userID, err)
	} else {
		snapshot.Sharpness = metricSnapshot.Sharpness
		snapshot.Readiness = metricSnapshot.Readiness
		snapshot.MetricsKnown = true
	}

	return &evaluation{
		snapshot: snapshot,
		state:    state,
		records:  records,
		metrics:  metricSnapshot,
	}, nil
}
