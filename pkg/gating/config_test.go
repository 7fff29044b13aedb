package gating

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AccelByte/extend-cognitive-gate/pkg/plan"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gating.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
games:
  logic_ladder:
    minRecovery: 55
    minReadiness: 50
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if got := cfg.Games[GameLogicLadder].MinRecovery; got != 55 {
		t.Errorf("logic_ladder minRecovery = %v, want 55", got)
	}
	// Games the file does not name keep their built-in thresholds.
	if got := cfg.Games[GameRapidMatch].MinSharpness; got != 35 {
		t.Errorf("rapid_match minSharpness = %v, want default 35", got)
	}
	if cfg.Dedup.S2ExclusionWindow != 6 {
		t.Errorf("s2ExclusionWindow = %d, want default 6", cfg.Dedup.S2ExclusionWindow)
	}
	if _, ok := cfg.Plans[plan.TierMax]; !ok {
		t.Error("expected default plan tiers to survive a partial file")
	}
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	path := writeConfigFile(t, `
games:
  insight_forge:
    minRecovery: ${GATING_TEST_INSIGHT_MIN_REC:45}
    minReadiness: ${GATING_TEST_INSIGHT_MIN_READY:45}
    maxReadiness: 80
`)

	t.Setenv("GATING_TEST_INSIGHT_MIN_REC", "60")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if got := cfg.Games[GameInsightForge].MinRecovery; got != 60 {
		t.Errorf("minRecovery = %v, want env override 60", got)
	}
	if got := cfg.Games[GameInsightForge].MinReadiness; got != 45 {
		t.Errorf("minReadiness = %v, want default 45", got)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name: "missing game thresholds",
			mutate: func(c *Config) {
				delete(c.Games, GameAttentionGrid)
			},
			wantErr: true,
		},
		{
			name: "recovery out of range",
			mutate: func(c *Config) {
				th := c.Games[GameRapidMatch]
				th.MinRecovery = 130
				c.Games[GameRapidMatch] = th
			},
			wantErr: true,
		},
		{
			name: "sharpness ceiling below floor",
			mutate: func(c *Config) {
				th := c.Games[GameAttentionGrid]
				th.MaxSharpness = 20
				c.Games[GameAttentionGrid] = th
			},
			wantErr: true,
		},
		{
			name: "readiness ceiling below floor",
			mutate: func(c *Config) {
				th := c.Games[GameInsightForge]
				th.MaxReadiness = 10
				c.Games[GameInsightForge] = th
			},
			wantErr: true,
		},
		{
			name: "unknown fallback plan",
			mutate: func(c *Config) {
				c.FallbackPlan = plan.Tier("enterprise")
			},
			wantErr: true,
		},
		{
			name: "negative weekly cap",
			mutate: func(c *Config) {
				m := c.Plans[plan.TierPlus]
				m.S2MaxPerWeek = -1
				c.Plans[plan.TierPlus] = m
			},
			wantErr: true,
		},
		{
			name: "negative exclusion window",
			mutate: func(c *Config) {
				c.Dedup.S1ExclusionWindow = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
