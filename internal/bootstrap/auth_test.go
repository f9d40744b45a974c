package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/blogger-api/config"
	authmocks "github.com/target/blogger-api/internal/mocks/auth"
	"github.com/target/blogger-api/internal/service"
)

func testAuthConfig(revocation bool) config.AuthConfig {
	a := config.AuthConfig{
		JWTSecret:       "bootstrap-test-secret",
		BcryptCost:      config.MinBcryptCost,
		TokenRevocation: revocation,
		Policy: config.PasswordPolicyConfig{
			MinLength:        12,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireNumbers:   true,
			RequireSpecial:   false,
		},
	}
	a.Sanitize()
	return a
}

func TestBuildAuthServices(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("missing secret", func(t *testing.T) {
		auth := testAuthConfig(false)
		auth.JWTSecret = ""
		_, err := BuildAuthServices(AuthConfig{Auth: auth, Logger: logger})
		require.ErrorIs(t, err, service.ErrMissingSecret)
	})

	t.Run("revocation without redis is disabled", func(t *testing.T) {
		b, err := BuildAuthServices(AuthConfig{
			Auth:    testAuthConfig(true),
			Users:   authmocks.NewMemoryUserRepository(),
			History: authmocks.NewMemoryPasswordHistory(),
			Logger:  logger,
		})
		require.NoError(t, err)
		assert.False(t, b.Tokens.RevocationEnabled())
		assert.NotNil(t, b.Auth)
		assert.NotNil(t, b.Authorizer)
	})

	t.Run("revocation backed by redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		b, err := BuildAuthServices(AuthConfig{Auth: testAuthConfig(true), RedisClient: client, Logger: logger})
		require.NoError(t, err)
		assert.True(t, b.Tokens.RevocationEnabled())
	})

	t.Run("redis present but revocation off", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		b, err := BuildAuthServices(AuthConfig{Auth: testAuthConfig(false), RedisClient: client, Logger: logger})
		require.NoError(t, err)
		assert.False(t, b.Tokens.RevocationEnabled())
	})

	t.Run("policy from config", func(t *testing.T) {
		b, err := BuildAuthServices(AuthConfig{Auth: testAuthConfig(false), Logger: logger})
		require.NoError(t, err)
		req := b.Passwords.Requirements()
		assert.Equal(t, 12, req.MinLength)
		assert.False(t, req.RequireSpecialCharacters)
		assert.True(t, b.Passwords.ValidateStrength("Abcdefghijk1").Valid)
	})
}
