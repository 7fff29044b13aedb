package combo

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMaxAttempts bounds the generate-validate loop before the
// perturbation fallback kicks in.
const DefaultMaxAttempts = 10

// Generator produces session candidates. Implementations come from each
// drill's content pool; the engine only requires that repeated calls can
// yield different candidates.
type Generator interface {
	Generate() SessionCandidate
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func() SessionCandidate

// Generate calls the wrapped function.
func (f GeneratorFunc) Generate() SessionCandidate { return f() }

// SessionEngine runs the generate-validate loop with guaranteed fallback.
// One engine serves all requests; perturbation randomness goes through the
// top-level math/rand functions, which are safe for concurrent use.
type SessionEngine struct {
	validator   *Validator
	maxAttempts int
}

// NewSessionEngine creates a session engine. A nil validator uses the
// default exclusion windows; maxAttempts of zero or below uses the default.
func NewSessionEngine(validator *Validator, maxAttempts int) *SessionEngine {
	if validator == nil {
		validator = NewValidator(0, 0)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &SessionEngine{
		validator:   validator,
		maxAttempts: maxAttempts,
	}
}

// GenerateValidSession loops generating candidates until one passes
// validation or maxAttempts is exhausted. On exhaustion the last candidate's
// temporal parameters are perturbed with fresh randomness to force a new
// hash, and the session is accepted with FallbackUsed set. The engine never
// refuses to produce a session: an under-provisioned content pool degrades
// to a perturbed repeat, not an error.
func (e *SessionEngine) GenerateValidSession(generator Generator, recentCombos []Record, systemType SystemType, now time.Time) GenerationResult {
	rejected := 0
	var candidate SessionCandidate

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		candidate = generator.Generate()
		hash := Hash(candidate)

		validity := e.validator.IsComboValid(hash, recentCombos, systemType, now)
		if validity.Valid && IsNearDuplicate(candidate, recentCombos, now) {
			validity = Validity{Valid: false, Reason: ReasonNearDuplicate}
		}

		if validity.Valid {
			return GenerationResult{
				Session:            candidate,
				ComboHash:          hash,
				DuplicatesRejected: rejected,
			}
		}

		rejected++
		logrus.Debugf("combo candidate rejected (attempt %d/%d): %s", attempt+1, e.maxAttempts, validity.Reason)
	}

	// Exhausted: perturb and accept. Soft warning only, for monitoring
	// under-provisioned content pools.
	perturbed := e.perturb(candidate)
	logrus.Warnf("combo generation exhausted after %d attempts, accepting perturbed fallback", e.maxAttempts)

	return GenerationResult{
		Session:            perturbed,
		ComboHash:          Hash(perturbed),
		DuplicatesRejected: rejected,
		FallbackUsed:       true,
	}
}

// perturb jitters the candidate's temporal parameters and stamps a fresh
// nonce so the resulting hash cannot collide with any prior session.
func (e *SessionEngine) perturb(candidate SessionCandidate) SessionCandidate {
	perturbed := candidate
	perturbed.TemporalParams = make(map[string]float64, len(candidate.TemporalParams)+1)

	for k, v := range candidate.TemporalParams {
		// Jitter outside the 10% similarity tolerance so the fallback is
		// not itself a near-duplicate on temporal terms.
		jitter := 1 + 0.12 + 0.08*rand.Float64()
		if rand.Intn(2) == 0 {
			jitter = 1 / jitter
		}
		perturbed.TemporalParams[k] = v * jitter
	}
	perturbed.TemporalParams["fallback_nonce"] = float64(rand.Int63())

	return perturbed
}
