package plan

import (
	"fmt"
)

// Tier identifies a subscription plan tier.
type Tier string

const (
	TierBase Tier = "base"
	TierPlus Tier = "plus"
	TierMax  Tier = "max"
)

// Modifiers are the static per-plan knobs consumed by the gating engine.
// A zero weekly cap means the cap is not enforced for that tier.
type Modifiers struct {
	S2ThresholdModifier float64 `yaml:"s2ThresholdModifier" json:"s2ThresholdModifier"`
	RequireRecForS2     float64 `yaml:"requireRecForS2" json:"requireRecForS2"`
	InsightMaxPerWeek   int     `yaml:"insightMaxPerWeek" json:"insightMaxPerWeek"`
	S2MaxPerWeek        int     `yaml:"s2MaxPerWeek" json:"s2MaxPerWeek"`
	DailyGamesWithXP    int     `yaml:"dailyGamesWithXP" json:"dailyGamesWithXP"`
}

// Table is an immutable lookup of plan modifiers keyed by tier. Build it once
// at startup and inject it wherever gating is evaluated; call sites never
// consult plan configuration directly.
type Table struct {
	modifiers map[Tier]Modifiers
	fallback  Tier
}

// NewTable builds a Table from per-tier modifiers. The fallback tier is used
// for unknown tiers and must be present in the map.
func NewTable(modifiers map[Tier]Modifiers, fallback Tier) (*Table, error) {
	if len(modifiers) == 0 {
		return nil, fmt.Errorf("plan table requires at least one tier")
	}
	if _, ok := modifiers[fallback]; !ok {
		return nil, fmt.Errorf("fallback tier %q not present in plan table", fallback)
	}

	copied := make(map[Tier]Modifiers, len(modifiers))
	for tier, m := range modifiers {
		copied[tier] = m
	}

	return &Table{modifiers: copied, fallback: fallback}, nil
}

// DefaultTable returns the built-in three-tier table used when no
// configuration file overrides it.
func DefaultTable() *Table {
	table, _ := NewTable(map[Tier]Modifiers{
		TierBase: {
			S2ThresholdModifier: 0,
			RequireRecForS2:     0,
			InsightMaxPerWeek:   1,
			S2MaxPerWeek:        3,
			DailyGamesWithXP:    3,
		},
		TierPlus: {
			S2ThresholdModifier: -5,
			RequireRecForS2:     0,
			InsightMaxPerWeek:   3,
			S2MaxPerWeek:        7,
			DailyGamesWithXP:    5,
		},
		TierMax: {
			S2ThresholdModifier: -10,
			RequireRecForS2:     50,
			InsightMaxPerWeek:   0,
			S2MaxPerWeek:        0,
			DailyGamesWithXP:    8,
		},
	}, TierBase)
	return table
}

// Get returns the modifiers for a tier, falling back to the configured
// fallback tier for unknown values.
func (t *Table) Get(tier Tier) Modifiers {
	if m, ok := t.modifiers[tier]; ok {
		return m
	}
	return t.modifiers[t.fallback]
}

// Tiers returns the known tiers.
func (t *Table) Tiers() []Tier {
	tiers := make([]Tier, 0, len(t.modifiers))
	for tier := range t.modifiers {
		tiers = append(tiers, tier)
	}
	return tiers
}
