package gating

import (
	"github.com/sirupsen/logrus"
)

// Engine evaluates per-game availability from a snapshot of derived metrics,
// rolling-cap usage, and plan modifiers. Evaluation is pure and synchronous;
// the enclosing application fetches the snapshot inputs and persists nothing
// on behalf of the engine.
type Engine struct {
	cfg *Config
}

// NewEngine creates a gating engine over a validated configuration.
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// gateCheck is one (predicate, reason-code) pair. Checks are evaluated in
// declaration order and the first violated check resolves the result, which
// keeps the cap > plan floor > recovery > sharpness > readiness priority a
// property of the list rather than of branching code.
type gateCheck struct {
	status   Status
	code     ReasonCode
	violated func(snap Snapshot) *Detail
}

// Evaluate resolves the availability of a single game type.
func (e *Engine) Evaluate(game GameType, snap Snapshot) Availability {
	for _, check := range e.checksFor(game) {
		if detail := check.violated(snap); detail != nil {
			return Availability{
				Type:          game,
				Status:        check.status,
				ReasonCode:    check.code,
				Details:       detail,
				UnlockActions: unlockActionsFor(check.status, check.code),
			}
		}
	}
	return Availability{Type: game, Status: StatusEnabled}
}

// EvaluateAll resolves availability for every game type and derives the
// aggregate safety-rule flag.
func (e *Engine) EvaluateAll(snap Snapshot) Overview {
	games := make(map[GameType]Availability, len(AllGames))
	for _, game := range AllGames {
		games[game] = e.Evaluate(game, snap)
	}

	overview := Overview{
		Games:            games,
		SafetyRuleActive: safetyRuleActive(games, snap),
	}

	logrus.Debugf("gating evaluated: recovery=%.1f sharpness=%.1f readiness=%.1f safetyRule=%v",
		snap.RecoveryEffective, snap.Sharpness, snap.Readiness, overview.SafetyRuleActive)

	return overview
}

// checksFor builds the ordered check list for one game type. Caps come
// first (most restrictive), then the plan-specific recovery floor, then the
// metric thresholds in fixed recovery → sharpness → readiness order.
func (e *Engine) checksFor(game GameType) []gateCheck {
	t := e.cfg.Games[game]
	system := SystemOf(game)

	var checks []gateCheck

	if system == SystemOne {
		checks = append(checks, gateCheck{
			status: StatusProtection,
			code:   ReasonCapReachedDailyS1,
			violated: capCheck("s1_daily", func(snap Snapshot) (int, int) {
				return snap.Caps.S1DailyUsed, S1DailyMax
			}),
		})
	} else {
		checks = append(checks, gateCheck{
			status: StatusProtection,
			code:   ReasonCapReachedDailyS2,
			violated: capCheck("s2_daily", func(snap Snapshot) (int, int) {
				return snap.Caps.S2DailyUsed, S2DailyMax
			}),
		})
		if IsInsight(game) {
			checks = append(checks, gateCheck{
				status: StatusProtection,
				code:   ReasonCapReachedWeeklyInsight,
				violated: capCheck("insight_weekly", func(snap Snapshot) (int, int) {
					return snap.Caps.InsightWeeklyUsed, snap.Plan.InsightMaxPerWeek
				}),
			})
		}
		checks = append(checks, gateCheck{
			status: StatusProtection,
			code:   ReasonCapReachedWeeklyS2,
			violated: capCheck("s2_weekly", func(snap Snapshot) (int, int) {
				return snap.Caps.S2WeeklyUsed, snap.Plan.S2MaxPerWeek
			}),
		})

		// Plan-specific recovery floor for the most intensive tier.
		checks = append(checks, gateCheck{
			status: StatusProtection,
			code:   ReasonPlanRecoveryFloor,
			violated: func(snap Snapshot) *Detail {
				if snap.Plan.RequireRecForS2 <= 0 {
					return nil
				}
				// Recovery comes from the user-state checkpoint, so this
				// floor is decidable even when the metric fetch failed.
				if snap.RecoveryEffective >= snap.Plan.RequireRecForS2 {
					return nil
				}
				return &Detail{
					CurrentValue:  snap.RecoveryEffective,
					RequiredValue: snap.Plan.RequireRecForS2,
					Metric:        "recovery",
				}
			},
		})
	}

	// Unavailable metrics resolve conservatively before any threshold is
	// consulted; a transient metrics outage must never enable content.
	checks = append(checks, gateCheck{
		status: StatusWithheld,
		code:   ReasonMetricsUnavailable,
		violated: func(snap Snapshot) *Detail {
			if snap.MetricsKnown {
				return nil
			}
			return &Detail{Metric: "all"}
		},
	})

	checks = append(checks, gateCheck{
		status: StatusWithheld,
		code:   ReasonRecoveryTooLow,
		violated: func(snap Snapshot) *Detail {
			if snap.RecoveryEffective >= t.MinRecovery {
				return nil
			}
			return &Detail{CurrentValue: snap.RecoveryEffective, RequiredValue: t.MinRecovery, Metric: "recovery"}
		},
	})

	if system == SystemOne {
		checks = append(checks, gateCheck{
			status: StatusWithheld,
			code:   ReasonSharpnessTooLow,
			violated: func(snap Snapshot) *Detail {
				if snap.Sharpness >= t.MinSharpness {
					return nil
				}
				return &Detail{CurrentValue: snap.Sharpness, RequiredValue: t.MinSharpness, Metric: "sharpness"}
			},
		})
		if t.MaxSharpness > 0 {
			checks = append(checks, gateCheck{
				status: StatusWithheld,
				code:   ReasonSharpnessTooHigh,
				violated: func(snap Snapshot) *Detail {
					if snap.Sharpness <= t.MaxSharpness {
						return nil
					}
					return &Detail{CurrentValue: snap.Sharpness, RequiredValue: t.MaxSharpness, Metric: "sharpness"}
				},
			})
		}
	} else {
		checks = append(checks, gateCheck{
			status: StatusWithheld,
			code:   ReasonReadinessTooLow,
			violated: func(snap Snapshot) *Detail {
				required := t.MinReadiness + snap.Plan.S2ThresholdModifier
				if required < 0 {
					required = 0
				}
				if snap.Readiness >= required {
					return nil
				}
				return &Detail{CurrentValue: snap.Readiness, RequiredValue: required, Metric: "readiness"}
			},
		})
		if t.MaxReadiness > 0 {
			checks = append(checks, gateCheck{
				status: StatusWithheld,
				code:   ReasonReadinessTooHigh,
				violated: func(snap Snapshot) *Detail {
					if snap.Readiness <= t.MaxReadiness {
						return nil
					}
					return &Detail{CurrentValue: snap.Readiness, RequiredValue: t.MaxReadiness, Metric: "readiness"}
				},
			})
		}
	}

	return checks
}

// capCheck builds a cap predicate. A max of zero or below means the cap is
// not enforced for this tier.
func capCheck(metric string, usage func(Snapshot) (used, max int)) func(Snapshot) *Detail {
	return func(snap Snapshot) *Detail {
		used, max := usage(snap)
		if max <= 0 || used < max {
			return nil
		}
		return &Detail{CurrentValue: float64(used), RequiredValue: float64(max), Metric: metric}
	}
}

// safetyRuleActive reports whether System-2 content is broadly withheld by
// low recovery while the user has not completed first-week calibration.
func safetyRuleActive(games map[GameType]Availability, snap Snapshot) bool {
	if snap.Calibrated {
		return false
	}

	for _, game := range AllGames {
		if SystemOf(game) != SystemTwo {
			continue
		}
		availability := games[game]
		if availability.Status == StatusEnabled {
			return false
		}
		switch availability.ReasonCode {
		case ReasonRecoveryTooLow, ReasonPlanRecoveryFloor:
			// recovery-driven withholding
		default:
			return false
		}
	}
	return true
}

// unlockActionsFor suggests the recovery actions that can lift a withheld
// status. Protection statuses are system-level and cannot be bypassed by
// user action, so they carry no suggestions.
func unlockActionsFor(status Status, code ReasonCode) []string {
	if status != StatusWithheld {
		return nil
	}
	switch code {
	case ReasonRecoveryTooLow:
		return []string{"screen_detox", "outdoor_walk"}
	case ReasonSharpnessTooLow:
		return []string{"s1_warmup"}
	case ReasonSharpnessTooHigh:
		return []string{"cooldown_break"}
	case ReasonReadinessTooLow:
		return []string{"screen_detox", "s2_primer_task"}
	case ReasonReadinessTooHigh:
		return []string{"cooldown_break"}
	default:
		return nil
	}
}
