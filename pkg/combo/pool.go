package combo

import (
	"math/rand"
)

// Pool is a drill's content inventory: the stimulus and distractor IDs a
// generator draws from, plus the temporal parameter ranges.
type Pool struct {
	Stimuli         []string
	Distractors     []string
	StimulusCount   int
	DistractorCount int

	// TemporalRanges maps parameter name to [min,max]; sampled uniformly.
	TemporalRanges map[string][2]float64
	RuleParams     map[string]string
}

// PoolGenerator draws random candidates from a Pool at a fixed difficulty.
// Generators are shared across requests; randomness goes through the
// top-level math/rand functions, which are safe for concurrent use.
type PoolGenerator struct {
	pool       Pool
	difficulty int
}

// NewPoolGenerator creates a generator over the pool. Counts are clamped to
// the pool sizes so a thin pool yields smaller sessions instead of panics.
func NewPoolGenerator(pool Pool, difficulty int) *PoolGenerator {
	if pool.StimulusCount > len(pool.Stimuli) {
		pool.StimulusCount = len(pool.Stimuli)
	}
	if pool.DistractorCount > len(pool.Distractors) {
		pool.DistractorCount = len(pool.Distractors)
	}
	return &PoolGenerator{
		pool:       pool,
		difficulty: difficulty,
	}
}

// Generate samples one candidate: a random subset of stimuli and
// distractors and uniformly sampled temporal parameters.
func (g *PoolGenerator) Generate() SessionCandidate {
	temporal := make(map[string]float64, len(g.pool.TemporalRanges))
	for name, bounds := range g.pool.TemporalRanges {
		temporal[name] = bounds[0] + rand.Float64()*(bounds[1]-bounds[0])
	}

	rules := make(map[string]string, len(g.pool.RuleParams))
	for k, v := range g.pool.RuleParams {
		rules[k] = v
	}

	return SessionCandidate{
		StimulusIDs:    g.sample(g.pool.Stimuli, g.pool.StimulusCount),
		DistractorSet:  g.sample(g.pool.Distractors, g.pool.DistractorCount),
		TemporalParams: temporal,
		RuleParams:     rules,
		Difficulty:     g.difficulty,
	}
}

func (g *PoolGenerator) sample(ids []string, n int) []string {
	picked := rand.Perm(len(ids))[:n]
	out := make([]string, n)
	for i, idx := range picked {
		out[i] = ids[idx]
	}
	return out
}
