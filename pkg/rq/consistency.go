package rq

// The persisted consistency accumulator is separate from the windowed-score
// consistency component in Calculate. The accumulator moves by a small delta
// after every System-2 session and survives across score windows.

const (
	highQualityThreshold = 0.70
	lowQualityThreshold  = 0.50
)

// SessionQuality combines the per-session quality factors into [0,1].
// Accuracy dominates, response-timing consistency and deliberation coherence
// fill in the rest. Inputs outside [0,1] are clamped.
func SessionQuality(normalizedAccuracy, responseTimingConsistency, deliberationCoherence float64) float64 {
	q := 0.5*clamp01(normalizedAccuracy) +
		0.3*clamp01(responseTimingConsistency) +
		0.2*clamp01(deliberationCoherence)
	return clamp01(q)
}

// ConsistencyDelta returns the accumulator adjustment for a completed
// System-2 session: +2 for a high-quality session, 0 for a middling one,
// -1 for a poor one.
func ConsistencyDelta(sessionQuality float64) int {
	switch {
	case sessionQuality >= highQualityThreshold:
		return 2
	case sessionQuality >= lowQualityThreshold:
		return 0
	default:
		return -1
	}
}

// ApplyConsistencyDelta moves the persisted accumulator by the session delta,
// clamped to [0,100].
func ApplyConsistencyDelta(accumulator float64, delta int) float64 {
	return clamp(accumulator + float64(delta))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
