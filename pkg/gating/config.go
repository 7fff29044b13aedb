package gating

import (
	"fmt"
	"os"
	"strings"

	"github.com/AccelByte/extend-cognitive-gate/pkg/plan"

	"gopkg.in/yaml.v3"
)

const (
	// S1DailyMax is the fixed daily cap for System-1 drills.
	S1DailyMax = 3
	// S2DailyMax is the fixed daily cap for System-2 drills.
	S2DailyMax = 1
)

// Thresholds are the metric bands one game type is gated on. Zero ceiling
// values mean the ceiling is not enforced.
type Thresholds struct {
	MinRecovery  float64 `yaml:"minRecovery"`
	MinSharpness float64 `yaml:"minSharpness"`
	MaxSharpness float64 `yaml:"maxSharpness"`
	MinReadiness float64 `yaml:"minReadiness"`
	MaxReadiness float64 `yaml:"maxReadiness"`
}

// Config is the declarative gating table: metric thresholds per game type,
// plan modifiers per tier, and the anti-repetition exclusion windows.
type Config struct {
	Games        map[GameType]Thresholds      `yaml:"games"`
	Plans        map[plan.Tier]plan.Modifiers `yaml:"plans"`
	FallbackPlan plan.Tier                    `yaml:"fallbackPlan"`
	Dedup        DedupConfig                  `yaml:"dedup"`
}

// DedupConfig carries the exclusion windows consumed by the anti-repetition
// engine. System-2 drills are deduplicated more strictly than System-1.
type DedupConfig struct {
	S1ExclusionWindow int `yaml:"s1ExclusionWindow"`
	S2ExclusionWindow int `yaml:"s2ExclusionWindow"`
}

// DefaultConfig returns the built-in gating table used when no configuration
// file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Games: map[GameType]Thresholds{
			GameRapidMatch: {
				MinRecovery:  30,
				MinSharpness: 35,
			},
			GameAttentionGrid: {
				MinRecovery:  30,
				MinSharpness: 30,
				MaxSharpness: 85,
			},
			GameLogicLadder: {
				MinRecovery:  40,
				MinReadiness: 40,
			},
			GameInsightForge: {
				MinRecovery:  45,
				MinReadiness: 45,
				MaxReadiness: 80,
			},
		},
		Plans:        defaultPlanModifiers(),
		FallbackPlan: plan.TierBase,
		Dedup: DedupConfig{
			S1ExclusionWindow: 3,
			S2ExclusionWindow: 6,
		},
	}
}

func defaultPlanModifiers() map[plan.Tier]plan.Modifiers {
	table := plan.DefaultTable()
	modifiers := make(map[plan.Tier]plan.Modifiers)
	for _, tier := range table.Tiers() {
		modifiers[tier] = table.Get(tier)
	}
	return modifiers
}

// LoadConfig loads the gating table from a YAML file. Supports environment
// variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
// Missing game entries fall back to the built-in defaults so a partial file
// only overrides what it names.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	for _, game := range AllGames {
		t, ok := c.Games[game]
		if !ok {
			return fmt.Errorf("missing thresholds for game %s", game)
		}
		if t.MinRecovery < 0 || t.MinRecovery > 100 {
			return fmt.Errorf("game %s: minRecovery %v out of range", game, t.MinRecovery)
		}
		if t.MaxSharpness > 0 && t.MaxSharpness <= t.MinSharpness {
			return fmt.Errorf("game %s: maxSharpness %v must exceed minSharpness %v", game, t.MaxSharpness, t.MinSharpness)
		}
		if t.MaxReadiness > 0 && t.MaxReadiness <= t.MinReadiness {
			return fmt.Errorf("game %s: maxReadiness %v must exceed minReadiness %v", game, t.MaxReadiness, t.MinReadiness)
		}
	}

	if len(c.Plans) == 0 {
		return fmt.Errorf("no plan tiers configured")
	}
	if _, ok := c.Plans[c.FallbackPlan]; !ok {
		return fmt.Errorf("fallback plan %q not configured", c.FallbackPlan)
	}
	for tier, m := range c.Plans {
		if m.InsightMaxPerWeek < 0 || m.S2MaxPerWeek < 0 {
			return fmt.Errorf("plan %s: weekly caps must be non-negative", tier)
		}
		if m.RequireRecForS2 < 0 || m.RequireRecForS2 > 100 {
			return fmt.Errorf("plan %s: requireRecForS2 %v out of range", tier, m.RequireRecForS2)
		}
	}

	if c.Dedup.S1ExclusionWindow < 0 || c.Dedup.S2ExclusionWindow < 0 {
		return fmt.Errorf("exclusion windows must be non-negative")
	}

	return nil
}

// PlanTable builds the immutable plan lookup injected into gating evaluation.
func (c *Config) PlanTable() (*plan.Table, error) {
	return plan.NewTable(c.Plans, c.FallbackPlan)
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
