// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-cognitive-gate/pkg/combo"
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
)

const defaultDifficulty = 3

// poolFor returns the built-in content pool for a game. Inventories are
// synthetic IDs resolved to assets client-side; what matters here is that
// each pool is large enough for the anti-repetition engine to find fresh
// combinations inside an exclusion window.
func poolFor(game gating.GameType) combo.Pool {
	switch game {
	case gating.GameRapidMatch:
		return combo.Pool{
			Stimuli:         idRange("rm-sym", 40),
			Distractors:     idRange("rm-noise", 24),
			StimulusCount:   6,
			DistractorCount: 3,
			TemporalRanges: map[string][2]float64{
				"isi_ms":      {350, 900},
				"exposure_ms": {120, 400},
			},
			RuleParams: map[string]string{"match_rule": "shape"},
		}
	case gating.GameAttentionGrid:
		return combo.Pool{
			Stimuli:         idRange("ag-cell", 64),
			Distractors:     idRange("ag-lure", 32),
			StimulusCount:   9,
			DistractorCount: 4,
			TemporalRanges: map[string][2]float64{
				"grid_refresh_ms": {800, 2000},
				"target_dwell_ms": {200, 600},
			},
			RuleParams: map[string]string{"scan_pattern": "serpentine"},
		}
	case gating.GameLogicLadder:
		return combo.Pool{
			Stimuli:         idRange("ll-premise", 48),
			Distractors:     idRange("ll-foil", 24),
			StimulusCount:   4,
			DistractorCount: 2,
			TemporalRanges: map[string][2]float64{
				"step_budget_s": {20, 60},
			},
			RuleParams: map[string]string{"inference_depth": "2"},
		}
	case gating.GameInsightForge:
		return combo.Pool{
			Stimuli:         idRange("if-prompt", 36),
			Distractors:     idRange("if-anchor", 18),
			StimulusCount:   3,
			DistractorCount: 2,
			TemporalRanges: map[string][2]float64{
				"incubation_s": {30, 120},
			},
			RuleParams: map[string]string{"prompt_mode": "remote_association"},
		}
	default:
		return combo.Pool{}
	}
}

func idRange(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%03d", prefix, i+1)
	}
	return ids
}
