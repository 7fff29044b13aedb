// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
type Config struct {
	// Server configuration
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"ExtendCognitiveGate"`

	// AccelByte configuration (REQUIRED)
	ABNamespace    string `env:"AB_NAMESPACE,required"`
	ABBaseURL      string `env:"AB_BASE_URL,required"`
	ABClientID     string `env:"AB_CLIENT_ID,required"`
	ABClientSecret string `env:"AB_CLIENT_SECRET,required"`

	// Redis configuration
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// Gating table configuration
	GatingConfigPath string `env:"CONFIG_PATH" envDefault:"config/gating.yaml"`

	// Recovery decay: "linear" (points per hour) or "exponential" (half-life)
	DecayStrategy      string  `env:"RECOVERY_DECAY_STRATEGY" envDefault:"linear"`
	DecayPointsPerHour float64 `env:"RECOVERY_DECAY_POINTS_PER_HOUR" envDefault:"0.5"`
	DecayHalfLifeHours float64 `env:"RECOVERY_DECAY_HALF_LIFE_HOURS" envDefault:"96"`

	// Unlock overrides
	UnlockDailyLimit int `env:"UNLOCK_DAILY_LIMIT" envDefault:"2"`

	// Telemetry configuration
	OtelEnabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	OtelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"extend-cognitive-gate"`
}
