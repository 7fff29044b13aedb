package unlock

import (
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"

	"github.com/sirupsen/logrus"
)

// DefaultDailyLimit is the default number of overrides a user gets per day.
const DefaultDailyLimit = 2

// Outcome explains an unlock decision.
type Outcome string

const (
	// OutcomeGranted means the withheld content may be unlocked.
	OutcomeGranted Outcome = "granted"
	// OutcomeNotWithheld means the content is already enabled; nothing to bypass.
	OutcomeNotWithheld Outcome = "not_withheld"
	// OutcomeProtected means a system-level protection blocks the content;
	// protections are never bypassable.
	OutcomeProtected Outcome = "protected"
	// OutcomeBudgetExhausted means the daily override budget is spent.
	OutcomeBudgetExhausted Outcome = "budget_exhausted"
)

// Decision is the result of an unlock request.
type Decision struct {
	Allowed   bool    `json:"allowed"`
	Outcome   Outcome `json:"outcome"`
	Remaining int     `json:"remaining"`
}

// Engine is the rate-limited bypass path for withheld non-game content. It
// sits strictly downstream of the gating engine: it consumes a gating result
// and never re-evaluates metrics itself.
type Engine struct {
	dailyLimit int
}

// NewEngine creates an unlock engine; a non-positive limit uses the default.
func NewEngine(dailyLimit int) *Engine {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	return &Engine{dailyLimit: dailyLimit}
}

// DailyLimit returns the configured per-day override budget.
func (e *Engine) DailyLimit() int {
	return e.dailyLimit
}

// Decide resolves an unlock request against a gating result and the number
// of overrides already used today. Only WITHHELD content can be unlocked:
// PROTECTION statuses are system safeguards (caps, plan floors) and stay
// closed regardless of budget.
func (e *Engine) Decide(availability gating.Availability, usedToday int) Decision {
	remaining := e.dailyLimit - usedToday
	if remaining < 0 {
		remaining = 0
	}

	switch availability.Status {
	case gating.StatusEnabled:
		return Decision{Allowed: false, Outcome: OutcomeNotWithheld, Remaining: remaining}
	case gating.StatusProtection:
		return Decision{Allowed: false, Outcome: OutcomeProtected, Remaining: remaining}
	}

	if remaining == 0 {
		logrus.Debugf("unlock denied: daily budget of %d exhausted", e.dailyLimit)
		return Decision{Allowed: false, Outcome: OutcomeBudgetExhausted, Remaining: 0}
	}

	return Decision{Allowed: true, Outcome: OutcomeGranted, Remaining: remaining - 1}
}
