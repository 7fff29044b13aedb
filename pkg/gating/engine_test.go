package gating

import (
	"testing"

	"github.com/AccelByte/extend-cognitive-gate/pkg/plan"
)

func healthySnapshot() Snapshot {
	return Snapshot{
		Sharpness:         60,
		Readiness:         60,
		RecoveryEffective: 70,
		MetricsKnown:      true,
		Plan:              plan.DefaultTable().Get(plan.TierBase),
		Calibrated:        true,
	}
}

func TestEvaluate_EnabledHappyPath(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()

	for _, game := range AllGames {
		result := engine.Evaluate(game, snap)
		if result.Status != StatusEnabled {
			t.Errorf("%s: status = %s (%s), expected ENABLED", game, result.Status, result.ReasonCode)
		}
		if result.ReasonCode != "" {
			t.Errorf("%s: enabled result carries reason code %s", game, result.ReasonCode)
		}
	}
}

func TestEvaluate_DailyCapS1(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()
	snap.Caps.S1DailyUsed = S1DailyMax

	// Cap applies regardless of metric values, including perfect ones.
	snap.Sharpness = 100
	snap.RecoveryEffective = 100

	for _, game := range []GameType{GameRapidMatch, GameAttentionGrid} {
		result := engine.Evaluate(game, snap)
		if result.Status != StatusProtection {
			t.Errorf("%s: status = %s, expected PROTECTION", game, result.Status)
		}
		if result.ReasonCode != ReasonCapReachedDailyS1 {
			t.Errorf("%s: reason = %s, expected %s", game, result.ReasonCode, ReasonCapReachedDailyS1)
		}
		if len(result.UnlockActions) != 0 {
			t.Errorf("%s: protection status should carry no unlock actions", game)
		}
	}
}

func TestEvaluate_DailyCapS2(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()
	snap.Caps.S2DailyUsed = S2DailyMax

	for _, game := range []GameType{GameLogicLadder, GameInsightForge} {
		result := engine.Evaluate(game, snap)
		if result.Status != StatusProtection || result.ReasonCode != ReasonCapReachedDailyS2 {
			t.Errorf("%s: got %s/%s, expected PROTECTION/%s", game, result.Status, result.ReasonCode, ReasonCapReachedDailyS2)
		}
	}
}

func TestEvaluate_CapBeatsThreshold(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()

	// Both the cap and the sharpness floor are violated; the cap must win.
	snap.Caps.S1DailyUsed = S1DailyMax
	snap.Sharpness = 0
	snap.RecoveryEffective = 0

	result := engine.Evaluate(GameRapidMatch, snap)
	if result.ReasonCode != ReasonCapReachedDailyS1 {
		t.Errorf("reason = %s, expected cap to take priority", result.ReasonCode)
	}
}

func TestEvaluate_WeeklyCaps(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("insight weekly cap", func(t *testing.T) {
		snap := healthySnapshot()
		snap.Caps.InsightWeeklyUsed = snap.Plan.InsightMaxPerWeek

		result := engine.Evaluate(GameInsightForge, snap)
		if result.Status != StatusProtection || result.ReasonCode != ReasonCapReachedWeeklyInsight {
			t.Errorf("got %s/%s, expected PROTECTION/%s", result.Status, result.ReasonCode, ReasonCapReachedWeeklyInsight)
		}

		// The other S2 type is unaffected by the insight cap.
		if other := engine.Evaluate(GameLogicLadder, snap); other.Status != StatusEnabled {
			t.Errorf("logic_ladder: got %s/%s, expected ENABLED", other.Status, other.ReasonCode)
		}
	})

	t.Run("s2 weekly cap", func(t *testing.T) {
		snap := healthySnapshot()
		snap.Caps.S2WeeklyUsed = snap.Plan.S2MaxPerWeek

		for _, game := range []GameType{GameLogicLadder, GameInsightForge} {
			result := engine.Evaluate(game, snap)
			if result.Status != StatusProtection || result.ReasonCode != ReasonCapReachedWeeklyS2 {
				t.Errorf("%s: got %s/%s, expected PROTECTION/%s", game, result.Status, result.ReasonCode, ReasonCapReachedWeeklyS2)
			}
		}
	})

	t.Run("zero weekly cap means unenforced", func(t *testing.T) {
		snap := healthySnapshot()
		snap.Plan = plan.DefaultTable().Get(plan.TierMax) // unlimited weeklies
		snap.Caps.S2WeeklyUsed = 100
		snap.Caps.InsightWeeklyUsed = 100

		result := engine.Evaluate(GameLogicLadder, snap)
		if result.Status != StatusEnabled {
			t.Errorf("got %s/%s, expected ENABLED with unenforced weekly caps", result.Status, result.ReasonCode)
		}
	})
}

func TestEvaluate_PlanRecoveryFloor(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()
	snap.Plan = plan.DefaultTable().Get(plan.TierMax)
	snap.RecoveryEffective = 45 // above per-game minimums, below the plan floor of 50

	result := engine.Evaluate(GameLogicLadder, snap)
	if result.Status != StatusProtection || result.ReasonCode != ReasonPlanRecoveryFloor {
		t.Errorf("got %s/%s, expected PROTECTION/%s", result.Status, result.ReasonCode, ReasonPlanRecoveryFloor)
	}

	// System-1 drills are not subject to the plan floor.
	if s1 := engine.Evaluate(GameRapidMatch, snap); s1.Status != StatusEnabled {
		t.Errorf("rapid_match: got %s/%s, expected ENABLED", s1.Status, s1.ReasonCode)
	}
}

func TestEvaluate_PlanRecoveryFloorDuringMetricsOutage(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()
	snap.Plan = plan.DefaultTable().Get(plan.TierMax)
	snap.MetricsKnown = false

	// Recovery comes from the user-state checkpoint, so a healthy value
	// satisfies the plan floor even when the metric fetch failed; the
	// outage itself is what withholds the game.
	snap.RecoveryEffective = 80
	result := engine.Evaluate(GameLogicLadder, snap)
	if result.Status != StatusWithheld || result.ReasonCode != ReasonMetricsUnavailable {
		t.Errorf("got %s/%s, expected WITHHELD/%s", result.Status, result.ReasonCode, ReasonMetricsUnavailable)
	}

	// A genuine floor violation still reports the floor during an outage.
	snap.RecoveryEffective = 40
	result = engine.Evaluate(GameLogicLadder, snap)
	if result.Status != StatusProtection || result.ReasonCode != ReasonPlanRecoveryFloor {
		t.Errorf("got %s/%s, expected PROTECTION/%s", result.Status, result.ReasonCode, ReasonPlanRecoveryFloor)
	}
}

func TestEvaluate_RecoveryChecksBeforeSharpness(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()
	snap.RecoveryEffective = 10
	snap.Sharpness = 10 // also violated

	result := engine.Evaluate(GameRapidMatch, snap)
	if result.ReasonCode != ReasonRecoveryTooLow {
		t.Errorf("reason = %s, expected recovery checked before sharpness", result.ReasonCode)
	}
	if result.Status != StatusWithheld {
		t.Errorf("status = %s, expected WITHHELD", result.Status)
	}
	if len(result.UnlockActions) == 0 {
		t.Error("withheld-by-recovery should suggest unlock actions")
	}
}

func TestEvaluate_SharpnessCeiling(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()
	snap.Sharpness = 95

	result := engine.Evaluate(GameAttentionGrid, snap)
	if result.Status != StatusWithheld || result.ReasonCode != ReasonSharpnessTooHigh {
		t.Errorf("got %s/%s, expected WITHHELD/%s", result.Status, result.ReasonCode, ReasonSharpnessTooHigh)
	}

	// The plain speed drill has no ceiling.
	if other := engine.Evaluate(GameRapidMatch, snap); other.Status != StatusEnabled {
		t.Errorf("rapid_match: got %s/%s, expected ENABLED", other.Status, other.ReasonCode)
	}
}

func TestEvaluate_InsightReadinessRange(t *testing.T) {
	engine := NewEngine(nil)

	low := healthySnapshot()
	low.Readiness = 30
	if result := engine.Evaluate(GameInsightForge, low); result.ReasonCode != ReasonReadinessTooLow {
		t.Errorf("low readiness: reason = %s, expected %s", result.ReasonCode, ReasonReadinessTooLow)
	}

	high := healthySnapshot()
	high.Readiness = 95
	if result := engine.Evaluate(GameInsightForge, high); result.ReasonCode != ReasonReadinessTooHigh {
		t.Errorf("high readiness: reason = %s, expected %s", result.ReasonCode, ReasonReadinessTooHigh)
	}
}

func TestEvaluate_PlanThresholdModifier(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()
	snap.Readiness = 37 // below the base requirement of 40

	if result := engine.Evaluate(GameLogicLadder, snap); result.ReasonCode != ReasonReadinessTooLow {
		t.Fatalf("base tier should withhold at readiness 37, got %s", result.ReasonCode)
	}

	// The plus tier lowers the requirement by 5.
	snap.Plan = plan.DefaultTable().Get(plan.TierPlus)
	if result := engine.Evaluate(GameLogicLadder, snap); result.Status != StatusEnabled {
		t.Errorf("plus tier: got %s/%s, expected ENABLED at readiness 37", result.Status, result.ReasonCode)
	}
}

func TestEvaluate_LowRecoveryNeverEnablesS2(t *testing.T) {
	engine := NewEngine(nil)

	for _, sharpness := range []float64{0, 50, 100} {
		for _, readiness := range []float64{0, 50, 100} {
			snap := healthySnapshot()
			snap.RecoveryEffective = 20
			snap.Sharpness = sharpness
			snap.Readiness = readiness

			for _, game := range []GameType{GameLogicLadder, GameInsightForge} {
				result := engine.Evaluate(game, snap)
				if result.Status == StatusEnabled {
					t.Errorf("%s enabled at recovery=20 (sharpness=%v readiness=%v)", game, sharpness, readiness)
				}
			}
		}
	}
}

func TestEvaluate_MetricsUnavailableIsConservative(t *testing.T) {
	engine := NewEngine(nil)
	snap := healthySnapshot()
	snap.MetricsKnown = false

	for _, game := range AllGames {
		result := engine.Evaluate(game, snap)
		if result.Status == StatusEnabled {
			t.Errorf("%s enabled with unavailable metrics", game)
		}
		if result.Status == StatusWithheld && result.ReasonCode != ReasonMetricsUnavailable {
			t.Errorf("%s: reason = %s, expected %s", game, result.ReasonCode, ReasonMetricsUnavailable)
		}
	}
}

func TestEvaluateAll_SafetyRule(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("active when uncalibrated and recovery-gated", func(t *testing.T) {
		snap := healthySnapshot()
		snap.Calibrated = false
		snap.RecoveryEffective = 20

		overview := engine.EvaluateAll(snap)
		if !overview.SafetyRuleActive {
			t.Error("safety rule should be active")
		}
	})

	t.Run("inactive once calibrated", func(t *testing.T) {
		snap := healthySnapshot()
		snap.RecoveryEffective = 20

		overview := engine.EvaluateAll(snap)
		if overview.SafetyRuleActive {
			t.Error("safety rule should be inactive for calibrated users")
		}
	})

	t.Run("inactive when withholding is not recovery-driven", func(t *testing.T) {
		snap := healthySnapshot()
		snap.Calibrated = false
		snap.Readiness = 10 // S2 withheld by readiness, not recovery

		overview := engine.EvaluateAll(snap)
		if overview.SafetyRuleActive {
			t.Error("safety rule should require recovery-driven withholding")
		}
	})

	t.Run("every game gets a definite status", func(t *testing.T) {
		overview := engine.EvaluateAll(Snapshot{})
		if len(overview.Games) != len(AllGames) {
			t.Fatalf("expected %d results, got %d", len(AllGames), len(overview.Games))
		}
		for game, result := range overview.Games {
			switch result.Status {
			case StatusEnabled, StatusWithheld, StatusProtection:
			default:
				t.Errorf("%s: indefinite status %q", game, result.Status)
			}
		}
	})
}
