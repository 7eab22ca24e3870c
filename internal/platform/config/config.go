package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// EntitiesFile points to a YAML file with the tracked entities.
	// Empty means the built-in default set.
	EntitiesFile string `env:"ENTITIES_FILE"`

	BatchConcurrency int `env:"BATCH_CONCURRENCY" default:"4"`

	StoreTimeout      time.Duration `env:"STORE_TIMEOUT" default:"5s"`
	StoreMaxRetries   int           `env:"STORE_MAX_RETRIES" default:"3"`
	StoreRetryBackoff time.Duration `env:"STORE_RETRY_BACKOFF" default:"200ms"`

	// Combiner weights. Normalized by their sum, so they do not have to
	// add up to exactly 1.
	WeightLexical float64 `env:"WEIGHT_LEXICAL" default:"0.4"`
	WeightValence float64 `env:"WEIGHT_VALENCE" default:"0.4"`
	WeightKeyword float64 `env:"WEIGHT_KEYWORD" default:"0.2"`

	// ConfidenceFloor is what a zero-signal method contributes to the
	// combined confidence instead of zero.
	ConfidenceFloor  float64 `env:"CONFIDENCE_FLOOR" default:"0.1"`
	MinScoringTokens int     `env:"MIN_SCORING_TOKENS" default:"20"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be at least 1, got %d", cfg.BatchConcurrency)
	}
	if cfg.StoreMaxRetries < 1 {
		return fmt.Errorf("STORE_MAX_RETRIES must be at least 1, got %d", cfg.StoreMaxRetries)
	}
	if cfg.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %v", cfg.StoreTimeout)
	}
	if cfg.WeightLexical < 0 || cfg.WeightValence < 0 || cfg.WeightKeyword < 0 {
		return fmt.Errorf("combiner weights must be non-negative")
	}
	if cfg.WeightLexical+cfg.WeightValence+cfg.WeightKeyword == 0 {
		return fmt.Errorf("at least one combiner weight must be positive")
	}
	if cfg.ConfidenceFloor < 0 || cfg.ConfidenceFloor > 1 {
		return fmt.Errorf("CONFIDENCE_FLOOR must be in [0, 1], got %v", cfg.ConfidenceFloor)
	}
	if cfg.MinScoringTokens < 1 {
		return fmt.Errorf("MIN_SCORING_TOKENS must be at least 1, got %d", cfg.MinScoringTokens)
	}
	return nil
}
