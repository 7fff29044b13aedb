package combo

import (
	"time"
)

const (
	// DefaultS1ExclusionWindow is how many recent combos a System-1 drill
	// may not repeat from.
	DefaultS1ExclusionWindow = 3
	// DefaultS2ExclusionWindow is the System-2 window. System-2 sessions are
	// scarcer, so their repeats are excluded over a longer stretch.
	DefaultS2ExclusionWindow = 6
)

// SystemType mirrors the gating engine's S1/S2 grouping without importing it;
// the anti-repetition engine is independent of gating.
type SystemType string

const (
	SystemOne SystemType = "s1"
	SystemTwo SystemType = "s2"
)

// Validator validates candidate hashes against recent history.
type Validator struct {
	s1Window int
	s2Window int
}

// NewValidator creates a validator with the given exclusion windows; zero
// values fall back to the defaults.
func NewValidator(s1Window, s2Window int) *Validator {
	if s1Window <= 0 {
		s1Window = DefaultS1ExclusionWindow
	}
	if s2Window <= 0 {
		s2Window = DefaultS2ExclusionWindow
	}
	return &Validator{s1Window: s1Window, s2Window: s2Window}
}

// IsComboValid checks a candidate hash against recent combos for the same
// game, most recent first. Two rules apply:
//   - an identical hash earlier the same calendar day is always invalid
//   - an identical hash among the last N combos is invalid, where N is the
//     exclusion window for the drill's system type
func (v *Validator) IsComboValid(hash string, recentCombos []Record, systemType SystemType, now time.Time) Validity {
	window := v.s1Window
	if systemType == SystemTwo {
		window = v.s2Window
	}

	for i, record := range recentCombos {
		if record.ComboHash != hash {
			continue
		}
		if sameCalendarDay(record.CompletedAt, now) {
			return Validity{Valid: false, Reason: ReasonSameDayRepeat}
		}
		if i < window {
			return Validity{Valid: false, Reason: ReasonInExclusionWindow}
		}
	}

	return Validity{Valid: true}
}

// sameCalendarDay compares UTC calendar days, matching how the completion
// log buckets "today".
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
