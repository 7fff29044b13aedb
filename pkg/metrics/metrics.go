package metrics

import "github.com/prometheus/client_golang/prometheus"

// Application metrics, registered onto the metrics server's registry at
// startup.
var (
	// GatingDecisionsTotal counts gate evaluations per game and outcome.
	GatingDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognitive_gate_decisions_total",
			Help: "Total number of gating decisions",
		},
		[]string{"game", "status", "reason"},
	)

	// DedupRejectionsTotal counts session candidates rejected by the
	// anti-repetition checks.
	DedupRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognitive_gate_dedup_rejections_total",
			Help: "Total number of session candidates rejected as repeats or near-duplicates",
		},
		[]string{"game"},
	)

	// FallbackSessionsTotal counts sessions served via the perturbation
	// fallback after generation retries were exhausted.
	FallbackSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognitive_gate_fallback_sessions_total",
			Help: "Total number of sessions produced by the perturbation fallback",
		},
		[]string{"game"},
	)

	// CapRaceObservedTotal counts completions whose post-write recount
	// exceeded the cap, i.e. two near-simultaneous sessions both passed the
	// gate.
	CapRaceObservedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cognitive_gate_cap_race_observed_total",
			Help: "Total number of completions that exceeded a cap due to concurrent admission",
		},
	)

	// UnlockDecisionsTotal counts override requests per outcome.
	UnlockDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognitive_gate_unlock_decisions_total",
			Help: "Total number of unlock override decisions",
		},
		[]string{"outcome"},
	)

	// StoreFailOpenTotal counts storage reads that failed and were served
	// with the permissive default instead.
	StoreFailOpenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognitive_gate_store_fail_open_total",
			Help: "Total number of storage failures handled by failing open",
		},
		[]string{"store"},
	)
)

// Collectors returns every application metric for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		GatingDecisionsTotal,
		DedupRejectionsTotal,
		FallbackSessionsTotal,
		CapRaceObservedTotal,
		UnlockDecisionsTotal,
		StoreFailOpenTotal,
	}
}
