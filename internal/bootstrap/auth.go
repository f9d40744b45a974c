package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/blogger-api/config"
	redisadapter "github.com/target/blogger-api/internal/adapters/redis"
	"github.com/target/blogger-api/internal/core"
	"github.com/target/blogger-api/internal/data"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/ports"
	"github.com/target/blogger-api/internal/service"
)

// AuthConfig contains configuration for the auth services.
type AuthConfig struct {
	Auth        config.AuthConfig
	BaseURL     string
	Users       core.UserRepository
	History     core.PasswordHistoryRepository
	Mailer      ports.Mailer
	MailTimeout time.Duration
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// AuthBundle groups the services that make up the auth core.
type AuthBundle struct {
	Tokens     *service.TokenService
	Passwords  *service.PasswordService
	Auth       *service.AuthService
	Authorizer *service.Authorizer
}

// BuildAuthServices wires token, password and account services. Token revocation
// is enabled only when it is configured and a redis client is available.
func BuildAuthServices(cfg AuthConfig) (AuthBundle, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var denylist ports.TokenDenylist
	switch {
	case cfg.Auth.TokenRevocation && cfg.RedisClient != nil:
		denylist = redisadapter.NewTokenDenylist(cfg.RedisClient)
	case cfg.Auth.TokenRevocation:
		logger.Warn("token revocation requested but redis is not configured; logout will not revoke tokens")
	}

	tokens, err := service.NewTokenService(service.TokenServiceOptions{
		Secret:     cfg.Auth.JWTSecret,
		SessionTTL: cfg.Auth.SessionTTL,
		ResetTTL:   cfg.Auth.ResetTTL,
		Denylist:   denylist,
		Logger:     logger,
	})
	if err != nil {
		return AuthBundle{}, fmt.Errorf("build token service: %w", err)
	}

	passwords := service.NewPasswordService(service.PasswordServiceOptions{
		Hasher: service.NewBcryptHasher(service.BcryptHasherOptions{
			Cost:        cfg.Auth.BcryptCost,
			Concurrency: cfg.Auth.HashConcurrency,
		}),
		History:      cfg.History,
		Requirements: passwordRequirements(cfg.Auth.Policy),
		HistoryLimit: cfg.Auth.HistoryLimit,
	})

	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:       cfg.Users,
		Passwords:   passwords,
		Tokens:      tokens,
		Mailer:      cfg.Mailer,
		AppBaseURL:  cfg.BaseURL,
		MailTimeout: cfg.MailTimeout,
		Logger:      logger,
	})

	return AuthBundle{
		Tokens:     tokens,
		Passwords:  passwords,
		Auth:       auth,
		Authorizer: service.NewAuthorizer(tokens),
	}, nil
}

func passwordRequirements(p config.PasswordPolicyConfig) domainauth.PasswordRequirements {
	return domainauth.PasswordRequirements{
		MinLength:                p.MinLength,
		RequireUppercase:         p.RequireUppercase,
		RequireLowercase:         p.RequireLowercase,
		RequireNumbers:           p.RequireNumbers,
		RequireSpecialCharacters: p.RequireSpecial,
	}
}

// newAuthRepositories returns the postgres-backed account stores.
func newAuthRepositories(db *sql.DB) (*data.UserRepo, *data.PasswordHistoryRepo) {
	return data.NewUserRepo(db), data.NewPasswordHistoryRepo(db)
}
