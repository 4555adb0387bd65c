package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`

	// AuthSecret is the shared login secret every account accepts. A
	// stand-in for real credential storage, which is out of scope.
	AuthSecret string `envconfig:"AUTH_SECRET" default:"admin"`

	// Simulated network round-trip bounds for facade operations.
	SimLatencyMin   time.Duration `envconfig:"SIM_LATENCY_MIN" default:"150ms"`
	SimLatencyMax   time.Duration `envconfig:"SIM_LATENCY_MAX" default:"600ms"`
	SimLatencyLimit time.Duration `envconfig:"SIM_LATENCY_LIMIT" default:"5s"`

	IntegrityCron string `envconfig:"INTEGRITY_CRON" default:"@every 5m"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.AuthSecret == "" {
		return nil, errors.New("auth secret must be provided")
	}
	if cfg.SimLatencyMax < cfg.SimLatencyMin {
		return nil, errors.New("simulated latency max must not be below min")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
