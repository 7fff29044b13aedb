package combo

import (
	"testing"
	"time"
)

func baseCandidate() SessionCandidate {
	return SessionCandidate{
		StimulusIDs:   []string{"stim-a", "stim-b", "stim-c"},
		DistractorSet: []string{"dis-1", "dis-2"},
		TemporalParams: map[string]float64{
			"stimulus_ms": 450,
			"interval_ms": 900,
		},
		RuleParams: map[string]string{
			"rule": "match_color",
			"mode": "strict",
		},
		Difficulty: 3,
	}
}

func TestHash_OrderInvariant(t *testing.T) {
	a := baseCandidate()
	b := baseCandidate()
	b.StimulusIDs = []string{"stim-c", "stim-a", "stim-b"}
	b.DistractorSet = []string{"dis-2", "dis-1"}

	if Hash(a) != Hash(b) {
		t.Error("hash changed under stimulus/distractor shuffle")
	}
}

func TestHash_SensitiveToChanges(t *testing.T) {
	base := baseCandidate()
	baseHash := Hash(base)

	difficulty := baseCandidate()
	difficulty.Difficulty = 4
	if Hash(difficulty) == baseHash {
		t.Error("hash unchanged despite difficulty change")
	}

	stimulus := baseCandidate()
	stimulus.StimulusIDs = []string{"stim-a", "stim-b", "stim-d"}
	if Hash(stimulus) == baseHash {
		t.Error("hash unchanged despite stimulus change")
	}

	temporal := baseCandidate()
	temporal.TemporalParams["stimulus_ms"] = 451
	if Hash(temporal) == baseHash {
		t.Error("hash unchanged despite temporal change")
	}

	rule := baseCandidate()
	rule.RuleParams["mode"] = "lenient"
	if Hash(rule) == baseHash {
		t.Error("hash unchanged despite rule change")
	}
}

func TestHash_Deterministic(t *testing.T) {
	a := baseCandidate()
	if Hash(a) != Hash(a) {
		t.Error("hash not deterministic")
	}
}

func TestIsComboValid_SameDayRepeatIsHard(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	validator := NewValidator(0, 0)

	// Played this morning, already outside any exclusion window position.
	history := make([]Record, 10)
	for i := range history {
		history[i] = Record{ComboHash: "other", CompletedAt: now.Add(-time.Duration(i) * time.Hour)}
	}
	history[9] = Record{ComboHash: "repeat", CompletedAt: now.Add(-11 * time.Hour)}

	validity := validator.IsComboValid("repeat", history, SystemOne, now)
	if validity.Valid || validity.Reason != ReasonSameDayRepeat {
		t.Errorf("got %+v, expected same-day rejection", validity)
	}
}

func TestIsComboValid_ExclusionWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	validator := NewValidator(3, 6)

	// The repeat sits 5 sessions back, on earlier days.
	history := make([]Record, 8)
	for i := range history {
		history[i] = Record{ComboHash: "other", CompletedAt: now.AddDate(0, 0, -(i + 1))}
	}
	history[4].ComboHash = "repeat"

	// Within the System-2 window of 6: invalid.
	if v := validator.IsComboValid("repeat", history, SystemTwo, now); v.Valid {
		t.Error("S2 validation accepted a hash inside its exclusion window")
	} else if v.Reason != ReasonInExclusionWindow {
		t.Errorf("reason = %s, expected %s", v.Reason, ReasonInExclusionWindow)
	}

	// Outside the System-1 window of 3: valid.
	if v := validator.IsComboValid("repeat", history, SystemOne, now); !v.Valid {
		t.Errorf("S1 validation rejected a hash outside its window: %+v", v)
	}
}

func TestIsComboValid_EmptyHistory(t *testing.T) {
	validator := NewValidator(0, 0)
	if v := validator.IsComboValid("anything", nil, SystemTwo, time.Now()); !v.Valid {
		t.Errorf("empty history should validate, got %+v", v)
	}
}

func TestSimilarity_ExactNearDuplicateBoundary(t *testing.T) {
	// Engineered to land exactly on 0.80: identical stimuli (0.45), fully
	// disjoint distractors (0.00), matching temporal params (0.15), equal
	// rule params (0.20).
	a := baseCandidate()
	b := baseCandidate()
	b.DistractorSet = []string{"dis-8", "dis-9"}

	similarity := Similarity(a, b)
	if diff := similarity - 0.80; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("fixture similarity = %.6f, expected 0.80", similarity)
	}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	history := []Record{{ComboHash: Hash(b), CompletedAt: now.AddDate(0, 0, -2), Candidate: b}}
	if !IsNearDuplicate(a, history, now) {
		t.Error("similarity 0.80 must classify as near-duplicate (threshold 0.75)")
	}
}

func TestSimilarity_TemporalTolerance(t *testing.T) {
	a := baseCandidate()
	b := baseCandidate()
	b.TemporalParams = map[string]float64{
		"stimulus_ms": 450 * 1.05, // within 10%
		"interval_ms": 900 * 1.50, // well outside
	}

	got := temporalMatchFraction(a.TemporalParams, b.TemporalParams)
	if got != 0.5 {
		t.Errorf("temporalMatchFraction = %.2f, expected 0.5", got)
	}
}

func TestIsNearDuplicate_IgnoresOldHistory(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	candidate := baseCandidate()

	history := []Record{{
		ComboHash:   Hash(candidate),
		CompletedAt: now.AddDate(0, 0, -9), // outside the 7-day window
		Candidate:   candidate,
	}}

	if IsNearDuplicate(candidate, history, now) {
		t.Error("history older than the window should not trigger near-duplicate")
	}
}

func TestGenerateValidSession_AcceptsFreshCandidate(t *testing.T) {
	engine := NewSessionEngine(nil, 0)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	result := engine.GenerateValidSession(GeneratorFunc(baseCandidate), nil, SystemOne, now)
	if result.FallbackUsed {
		t.Error("fresh candidate should not need the fallback")
	}
	if result.DuplicatesRejected != 0 {
		t.Errorf("DuplicatesRejected = %d, expected 0", result.DuplicatesRejected)
	}
	if result.ComboHash != Hash(baseCandidate()) {
		t.Error("result hash does not match the generated candidate")
	}
}

func TestGenerateValidSession_ExhaustionFallback(t *testing.T) {
	engine := NewSessionEngine(nil, DefaultMaxAttempts)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	used := baseCandidate()
	usedHash := Hash(used)
	history := []Record{{ComboHash: usedHash, CompletedAt: now.Add(-2 * time.Hour), Candidate: used}}

	// A generator that can only produce the already-used candidate.
	result := engine.GenerateValidSession(GeneratorFunc(func() SessionCandidate { return used }), history, SystemTwo, now)

	if !result.FallbackUsed {
		t.Fatal("expected fallbackUsed after exhausting a stuck generator")
	}
	if result.DuplicatesRejected != DefaultMaxAttempts {
		t.Errorf("DuplicatesRejected = %d, expected %d", result.DuplicatesRejected, DefaultMaxAttempts)
	}
	if result.ComboHash == usedHash {
		t.Error("fallback hash collides with history")
	}
	if result.ComboHash != Hash(result.Session) {
		t.Error("fallback hash does not match the perturbed session")
	}
}

func TestGenerateValidSession_RejectsNearDuplicates(t *testing.T) {
	engine := NewSessionEngine(nil, 5)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	recent := baseCandidate()
	history := []Record{{ComboHash: Hash(recent), CompletedAt: now.AddDate(0, 0, -1), Candidate: recent}}

	// First candidate differs only in distractors (similarity 0.80, a near
	// duplicate); the second is genuinely fresh.
	nearDup := baseCandidate()
	nearDup.DistractorSet = []string{"dis-8", "dis-9"}
	fresh := baseCandidate()
	fresh.StimulusIDs = []string{"stim-x", "stim-y", "stim-z"}
	fresh.RuleParams = map[string]string{"rule": "match_shape"}
	fresh.TemporalParams = map[string]float64{"stimulus_ms": 700, "interval_ms": 1400}

	calls := 0
	generator := GeneratorFunc(func() SessionCandidate {
		calls++
		if calls == 1 {
			return nearDup
		}
		return fresh
	})

	result := engine.GenerateValidSession(generator, history, SystemOne, now)
	if result.FallbackUsed {
		t.Fatal("fallback should not trigger when a fresh candidate exists")
	}
	if result.DuplicatesRejected != 1 {
		t.Errorf("DuplicatesRejected = %d, expected 1", result.DuplicatesRejected)
	}
	if result.ComboHash != Hash(fresh) {
		t.Error("engine did not accept the fresh candidate")
	}
}
