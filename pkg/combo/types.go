package combo

import (
	"time"
)

// SessionCandidate is the ephemeral parameter set of a generated drill
// session, the input to fingerprinting. Slice and map ordering carries no
// meaning; two candidates with the same logical parameters are the same
// session.
type SessionCandidate struct {
	StimulusIDs    []string           `json:"stimulusIds"`
	DistractorSet  []string           `json:"distractorSet"`
	TemporalParams map[string]float64 `json:"temporalParams"`
	RuleParams     map[string]string  `json:"ruleParams"`
	Difficulty     int                `json:"difficulty"`
}

// Record is one append-only entry in the per-user combo log. Records are
// never deleted; history windows are applied at query time. The candidate
// parameters ride along so similarity can be computed against recent
// sessions, not just exact hashes.
type Record struct {
	ComboHash   string           `json:"comboHash"`
	CompletedAt time.Time        `json:"completedAt"`
	Difficulty  int              `json:"difficulty"`
	GameName    string           `json:"gameName"`
	Candidate   SessionCandidate `json:"candidate"`
}

// InvalidReason explains why a candidate was rejected.
type InvalidReason string

const (
	// ReasonSameDayRepeat marks an identical hash already played earlier the
	// same calendar day. Hard rule, no exception.
	ReasonSameDayRepeat InvalidReason = "same_day_repeat"
	// ReasonInExclusionWindow marks a hash found among the last N combos for
	// the game.
	ReasonInExclusionWindow InvalidReason = "in_exclusion_window"
	// ReasonNearDuplicate marks a candidate too similar to a recent session
	// despite a distinct hash.
	ReasonNearDuplicate InvalidReason = "near_duplicate"
)

// Validity is the outcome of validating one candidate hash against history.
type Validity struct {
	Valid  bool          `json:"valid"`
	Reason InvalidReason `json:"reason,omitempty"`
}

// GenerationResult is the outcome of GenerateValidSession.
type GenerationResult struct {
	Session            SessionCandidate `json:"session"`
	ComboHash          string           `json:"comboHash"`
	DuplicatesRejected int              `json:"duplicatesRejected"`
	FallbackUsed       bool             `json:"fallbackUsed"`
}
