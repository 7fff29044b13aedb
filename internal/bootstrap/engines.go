// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-cognitive-gate/internal/config"
	"github.com/AccelByte/extend-cognitive-gate/pkg/combo"
	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
	"github.com/AccelByte/extend-cognitive-gate/pkg/handler"
	"github.com/AccelByte/extend-cognitive-gate/pkg/plan"
	"github.com/AccelByte/extend-cognitive-gate/pkg/recovery"
	"github.com/AccelByte/extend-cognitive-gate/pkg/service"
	"github.com/AccelByte/extend-cognitive-gate/pkg/unlock"
)

// InitDecayStrategy builds the recovery decay curve from configuration.
func InitDecayStrategy(cfg *config.Config) (recovery.DecayStrategy, error) {
	switch cfg.DecayStrategy {
	case "linear":
		logrus.Infof("using linear recovery decay at %.2f points/hour", cfg.DecayPointsPerHour)
		return recovery.NewLinearDecay(cfg.DecayPointsPerHour), nil
	case "exponential":
		halfLife := time.Duration(cfg.DecayHalfLifeHours * float64(time.Hour))
		logrus.Infof("using exponential recovery decay with half-life %v", halfLife)
		return recovery.NewExponentialDecay(halfLife, 0), nil
	default:
		return nil, fmt.Errorf("unknown decay strategy %q", cfg.DecayStrategy)
	}
}

// InitGatingEngine loads the gating table and builds the engine plus the
// plan lookup shared with the handlers.
func InitGatingEngine(path string) (*gating.Engine, *gating.Config, *plan.Table, error) {
	cfg, err := gating.LoadConfig(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load gating config from %s: %w", path, err)
	}
	logrus.Infof("loaded gating configuration from %s (%d games, %d plan tiers)",
		path, len(cfg.Games), len(cfg.Plans))

	plans, err := cfg.PlanTable()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build plan table: %w", err)
	}

	return gating.NewEngine(cfg), cfg, plans, nil
}

// InitSessionEngine wires the anti-repetition validator with the configured
// exclusion windows.
func InitSessionEngine(cfg *gating.Config) *combo.SessionEngine {
	validator := combo.NewValidator(cfg.Dedup.S1ExclusionWindow, cfg.Dedup.S2ExclusionWindow)
	return combo.NewSessionEngine(validator, combo.DefaultMaxAttempts)
}

// InitGenerators builds the per-game content generators from the built-in
// pools. Stimulus inventories ship with the service; a thin pool degrades to
// smaller sessions, never to a refusal.
func InitGenerators() map[gating.GameType]combo.Generator {
	generators := make(map[gating.GameType]combo.Generator, len(gating.AllGames))
	for _, game := range gating.AllGames {
		generators[game] = combo.NewPoolGenerator(poolFor(game), defaultDifficulty)
	}
	return generators
}

// InitGate assembles the handler set from engines and stores.
func InitGate(
	stores *service.RedisStores,
	stats service.SkillStatsProvider,
	entitlements service.EntitlementGranter,
	engine *gating.Engine,
	plans *plan.Table,
	decay recovery.DecayStrategy,
	sessions *combo.SessionEngine,
	unlockLimit int,
) *handler.Gate {
	return handler.NewGate(handler.Deps{
		Stats:        stats,
		UserState:    stores.UserState,
		Completions:  stores.Completions,
		Combos:       stores.Combos,
		UnlockBudget: stores.UnlockBudget,
		Entitlements: entitlements,
		Engine:       engine,
		Plans:        plans,
		Decay:        decay,
		Sessions:     sessions,
		Unlocks:      unlock.NewEngine(unlockLimit),
		Generators:   InitGenerators(),
	})
}
