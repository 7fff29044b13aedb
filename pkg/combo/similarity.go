package combo

import (
	"math"
	"time"
)

const (
	// NearDuplicateThreshold is the similarity at or above which a candidate
	// counts as a near-duplicate of a recent session.
	NearDuplicateThreshold = 0.75

	// NearDuplicateWindow is how far back near-duplicate checks look.
	NearDuplicateWindow = 7 * 24 * time.Hour

	// temporalTolerance is the relative tolerance for temporal parameters to
	// count as matching.
	temporalTolerance = 0.10

	weightStimulus   = 0.45
	weightDistractor = 0.20
	weightTemporal   = 0.15
	weightRules      = 0.20
)

// Similarity scores how alike two session candidates are in [0,1]: Jaccard
// similarity of the stimulus and distractor sets, the fraction of temporal
// parameters matching within tolerance, and exact equality of the serialized
// rule parameters.
func Similarity(a, b SessionCandidate) float64 {
	score := weightStimulus*jaccard(a.StimulusIDs, b.StimulusIDs) +
		weightDistractor*jaccard(a.DistractorSet, b.DistractorSet) +
		weightTemporal*temporalMatchFraction(a.TemporalParams, b.TemporalParams)

	if rulesEqual(a.RuleParams, b.RuleParams) {
		score += weightRules
	}

	return score
}

// IsNearDuplicate reports whether the candidate is too similar to any combo
// recorded within the near-duplicate window.
func IsNearDuplicate(candidate SessionCandidate, history []Record, now time.Time) bool {
	cutoff := now.Add(-NearDuplicateWindow)
	for _, record := range history {
		if record.CompletedAt.Before(cutoff) {
			continue
		}
		if Similarity(candidate, record.Candidate) >= NearDuplicateThreshold {
			return true
		}
	}
	return false
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}

	shared := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

// temporalMatchFraction returns the fraction of the union of temporal keys
// whose values match within the relative tolerance.
func temporalMatchFraction(a, b map[string]float64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}

	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}

	matched := 0
	for k := range keys {
		av, aok := a[k]
		bv, bok := b[k]
		if !aok || !bok {
			continue
		}
		if withinTolerance(av, bv) {
			matched++
		}
	}

	return float64(matched) / float64(len(keys))
}

func withinTolerance(a, b float64) bool {
	if a == b {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return true
	}
	return math.Abs(a-b)/larger <= temporalTolerance
}

func rulesEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
