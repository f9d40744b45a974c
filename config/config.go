package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Environment names recognised by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: token signing, password hashing and password policy
//   - database.go: PostgreSQL and Redis
//   - http.go: HTTP server
//   - mail.go: outbound email
//   - metrics.go: StatsD metrics
type AppConfig struct {
	// Env selects the deployment environment (development, test, production).
	Env string `env:"APP_ENV" envDefault:"development"`

	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	Mail MailConfig `envPrefix:"SMTP_"`

	Metrics MetricsConfig
}

// ErrInsecureSecret is returned by Validate when production runs with a missing or well-known signing secret.
var ErrInsecureSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

// ErrUnknownEnv is returned by Validate when APP_ENV names no known environment.
var ErrUnknownEnv = errors.New("APP_ENV must be one of development, test, production")

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = EnvDevelopment
	}

	c.HTTP.Sanitize()
	c.Postgres.Sanitize()
	c.Auth.Sanitize()
	c.Mail.Sanitize()
	c.Metrics.Sanitize()

	c.detectDevMode()
}

// Validate rejects configurations that must never start.
// An unrecognised APP_ENV is fatal so a misspelt production deploy never gets development defaults.
// In production an empty or well-known JWT secret is fatal; elsewhere the
// development fallback is substituted and reported through UsingDevSecret.
func (c *AppConfig) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownEnv, c.Env)
	}
	if c.Auth.BcryptCost < MinBcryptCost || c.Auth.BcryptCost > MaxBcryptCost {
		return fmt.Errorf("BCRYPT_COST %d out of range [%d, %d]", c.Auth.BcryptCost, MinBcryptCost, MaxBcryptCost)
	}

	secret := strings.TrimSpace(c.Auth.JWTSecret)
	if c.IsProduction() {
		if secret == "" || secret == DevJWTSecret {
			return ErrInsecureSecret
		}
		return nil
	}
	if secret == "" {
		c.Auth.JWTSecret = DevJWTSecret
	}
	return nil
}

// UsingDevSecret reports whether the well-known development secret is in effect.
func (c *AppConfig) UsingDevSecret() bool {
	return c.Auth.JWTSecret == DevJWTSecret
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
	c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
}
