// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	// In production (Docker/K8s), environment variables are injected directly
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.HTTPPort)
	}

	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	if c.ABNamespace == "" {
		return fmt.Errorf("AB_NAMESPACE is required")
	}

	switch c.DecayStrategy {
	case "linear", "exponential":
	default:
		return fmt.Errorf("invalid RECOVERY_DECAY_STRATEGY: %q (must be linear or exponential)", c.DecayStrategy)
	}
	if c.DecayPointsPerHour < 0 {
		return fmt.Errorf("RECOVERY_DECAY_POINTS_PER_HOUR must be non-negative")
	}
	if c.DecayHalfLifeHours <= 0 {
		return fmt.Errorf("RECOVERY_DECAY_HALF_LIFE_HOURS must be positive")
	}

	if c.UnlockDailyLimit < 0 {
		return fmt.Errorf("UNLOCK_DAILY_LIMIT must be non-negative")
	}

	return nil
}
