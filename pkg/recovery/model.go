package recovery

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// NeutralBaseline is used when no onboarding seed is available.
	NeutralBaseline = 50.0

	// DefaultDecayPointsPerHour is the default linear decay rate.
	DefaultDecayPointsPerHour = 0.5

	// DetoxRecoveryPerMinute is the recovery gained per minute of screen detox.
	DetoxRecoveryPerMinute = 0.2

	// WalkRecoveryPerMinute is the recovery gained per minute of walking,
	// only credited once MinWalkingMinutes is met.
	WalkRecoveryPerMinute = 0.15

	// MinWalkingMinutes is the minimum walk length that counts toward recovery.
	MinWalkingMinutes = 20
)

// State is the persisted recovery checkpoint for a user. The stored value is
// only meaningful together with its timestamp; reads apply decay on the fly
// and never mutate the checkpoint.
type State struct {
	Value         float64   `json:"value"`
	LastTimestamp time.Time `json:"lastTimestamp"`
	HasBaseline   bool      `json:"hasBaseline"`
}

// OnboardingSeed carries the onboarding answers used to derive the initial
// recovery baseline (the "recovery readiness index").
type OnboardingSeed struct {
	SleepHours        float64 `json:"sleepHours"`
	DetoxHours        float64 `json:"detoxHours"`
	MentalStateRating int     `json:"mentalStateRating"` // 1..5 subjective rating
}

// ActionResult is the new checkpoint produced by a recovery action.
type ActionResult struct {
	NewValue     float64   `json:"newValue"`
	NewTimestamp time.Time `json:"newTimestamp"`
}

// CurrentRecovery returns the effective recovery at `now` by applying the
// decay strategy to the stored checkpoint. Pure: repeated evaluation at the
// same `now` yields the same result and the checkpoint is not modified.
func CurrentRecovery(state State, now time.Time, strategy DecayStrategy) float64 {
	elapsed := now.Sub(state.LastTimestamp)
	if elapsed < 0 {
		// Clock skew between writers; the checkpoint is the best answer we have.
		return clamp(state.Value)
	}
	return clamp(strategy.Decay(clamp(state.Value), elapsed))
}

// ApplyRecoveryAction computes a new checkpoint from a completed recovery
// action. The base value is first decayed to `now`, then detox minutes are
// credited, and walking minutes are credited only once the minimum walk
// length is met.
func ApplyRecoveryAction(baseValue float64, baseTimestamp time.Time, detoxMinutes, walkMinutes int, now time.Time, strategy DecayStrategy) ActionResult {
	base := CurrentRecovery(State{Value: baseValue, LastTimestamp: baseTimestamp}, now, strategy)

	boost := float64(detoxMinutes) * DetoxRecoveryPerMinute
	if walkMinutes >= MinWalkingMinutes {
		boost += float64(walkMinutes) * WalkRecoveryPerMinute
	}

	newValue := clamp(base + boost)

	logrus.Debugf("recovery action applied: base=%.2f detox=%dm walk=%dm boost=%.2f new=%.2f",
		base, detoxMinutes, walkMinutes, boost, newValue)

	return ActionResult{NewValue: newValue, NewTimestamp: now}
}

// InitializeBaseline seeds the recovery checkpoint for a new user. A nil seed
// falls back to the neutral baseline. Idempotent: a state that already has a
// baseline is returned unchanged.
func InitializeBaseline(state State, seed *OnboardingSeed, now time.Time) State {
	if state.HasBaseline {
		return state
	}

	value := NeutralBaseline
	if seed != nil {
		value = readinessIndex(*seed)
		logrus.Infof("initialized recovery baseline from onboarding seed: %.2f", value)
	}

	return State{
		Value:         clamp(value),
		LastTimestamp: now,
		HasBaseline:   true,
	}
}

// readinessIndex maps onboarding answers to an initial recovery value.
// Sleep dominates, with detox habits and the subjective rating filling in
// the rest. Each component saturates at its healthy target.
func readinessIndex(seed OnboardingSeed) float64 {
	sleepScore := ratio(seed.SleepHours, 8) * 100
	detoxScore := ratio(seed.DetoxHours, 2) * 100
	mentalScore := ratio(float64(seed.MentalStateRating), 5) * 100

	return clamp(0.4*sleepScore + 0.3*detoxScore + 0.3*mentalScore)
}

func ratio(v, target float64) float64 {
	if target <= 0 || v <= 0 {
		return 0
	}
	r := v / target
	if r > 1 {
		return 1
	}
	return r
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
