// Package config loads runtime configuration from ECOMDASH_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "ECOMDASH"

// Config holds runtime configuration for the application.
type Config struct {
	Env          string        `envconfig:"ENV" default:"development" validate:"oneof=development production test"`
	Addr         string        `envconfig:"ADDR" default:":8080" validate:"required"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`

	DBPath    string `envconfig:"DB_PATH" default:":memory:" validate:"required"`
	TokenFile string `envconfig:"TOKEN_FILE" default:".ecomdash-token"`
	Locale    string `envconfig:"LOCALE" default:"fr-FR" validate:"required,bcp47_language_tag"`

	// Seed 0 picks a time-based seed.
	Seed            uint64        `envconfig:"SEED" default:"0"`
	RefreshDelay    time.Duration `envconfig:"REFRESH_DELAY" default:"1500ms" validate:"gte=0"`
	ExperimentDelay time.Duration `envconfig:"EXPERIMENT_DELAY" default:"3s" validate:"gte=0"`

	// ActionRateLimit is the number of refresh/start requests allowed per
	// client IP and minute.
	ActionRateLimit int `envconfig:"ACTION_RATE_LIMIT" default:"30" validate:"gt=0"`

	LogFormat    string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFile      string `envconfig:"LOG_FILE"`
	LogMaxSizeMB int    `envconfig:"LOG_MAX_SIZE_MB" default:"50" validate:"gt=0"`
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints. Call it again after applying flag
// overrides.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}
