package config

import (
	"runtime"
	"time"
)

// DevJWTSecret is the well-known signing secret used when JWT_SECRET is unset outside production.
const DevJWTSecret = "your-secret-key-change-in-production"

// Bounds for BCRYPT_COST.
const (
	MinBcryptCost = 10
	MaxBcryptCost = 12
)

// PasswordPolicyConfig mirrors the password strength options.
type PasswordPolicyConfig struct {
	MinLength        int  `env:"MIN_LENGTH"        envDefault:"8"`
	RequireUppercase bool `env:"REQUIRE_UPPERCASE" envDefault:"true"`
	RequireLowercase bool `env:"REQUIRE_LOWERCASE" envDefault:"true"`
	RequireNumbers   bool `env:"REQUIRE_NUMBERS"   envDefault:"true"`
	RequireSpecial   bool `env:"REQUIRE_SPECIAL"   envDefault:"true"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// JWTSecret signs session and reset tokens.
	JWTSecret string `env:"JWT_SECRET"`

	// SessionTTL is the lifetime of a session token.
	SessionTTL time.Duration `env:"JWT_SESSION_TTL" envDefault:"168h"`

	// ResetTTL is the lifetime of a password reset token.
	ResetTTL time.Duration `env:"JWT_RESET_TTL" envDefault:"1h"`

	// BcryptCost is the bcrypt work factor, clamped to [10, 12].
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// HashConcurrency bounds the number of bcrypt operations running at once.
	// Zero means GOMAXPROCS.
	HashConcurrency int `env:"PASSWORD_HASH_CONCURRENCY" envDefault:"0"`

	// HistoryLimit is how many previous password hashes are kept per user.
	HistoryLimit int `env:"PASSWORD_HISTORY_LIMIT" envDefault:"5"`

	Policy PasswordPolicyConfig `envPrefix:"PASSWORD_"`

	// TokenRevocation enables the Redis-backed token denylist.
	TokenRevocation bool `env:"AUTH_TOKEN_REVOCATION" envDefault:"false"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.BcryptCost < MinBcryptCost {
		a.BcryptCost = MinBcryptCost
	}
	if a.BcryptCost > MaxBcryptCost {
		a.BcryptCost = MaxBcryptCost
	}
	if a.HashConcurrency <= 0 {
		a.HashConcurrency = runtime.GOMAXPROCS(0)
	}
	if a.HistoryLimit <= 0 {
		a.HistoryLimit = 5
	}
	if a.Policy.MinLength <= 0 {
		a.Policy.MinLength = 8
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 7 * 24 * time.Hour
	}
	if a.ResetTTL <= 0 {
		a.ResetTTL = time.Hour
	}
}
