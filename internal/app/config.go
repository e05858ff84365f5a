// Package app wires configuration, logging and the HTTP router.
package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is loaded once from the environment at process start and treated as
// immutable afterwards.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer       string        `envconfig:"JWT_ISSUER" default:"saral"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"300"`
}

// IsProduction reports whether the process runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("app: load config: %w", err)
	}
	return cfg, nil
}
