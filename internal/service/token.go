package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/ports"
)

const (
	// DefaultSessionTTL is the lifetime of a session token.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// DefaultResetTTL is the lifetime of a password reset token.
	DefaultResetTTL = time.Hour
	// TokenIssuer is the iss claim of every token this service signs.
	TokenIssuer = "blogger-api"
)

// ErrMissingSecret is returned by NewTokenService when no signing secret is configured.
var ErrMissingSecret = errors.New("token signing secret is required")

// sessionClaims is the signed payload of a session token.
type sessionClaims struct {
	ID    string               `json:"id"`
	Email string               `json:"email"`
	Name  string               `json:"name"`
	Role  domainauth.Role      `json:"role"`
	Type  domainauth.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// resetClaims is the signed payload of a password reset token.
type resetClaims struct {
	UserID string               `json:"userId"`
	Type   domainauth.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenServiceOptions groups dependencies for TokenService.
type TokenServiceOptions struct {
	Secret     string
	SessionTTL time.Duration
	ResetTTL   time.Duration
	// Denylist enables revocation. Optional.
	Denylist ports.TokenDenylist
	// Now overrides the clock. Optional.
	Now    func() time.Time
	Logger *slog.Logger
}

// TokenService issues and verifies HS256-signed session and reset tokens.
// Both kinds share one key; the type claim keeps them apart.
type TokenService struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	denylist   ports.TokenDenylist
	now        func() time.Time
	logger     *slog.Logger
	parser     *jwt.Parser
}

// NewTokenService constructs a TokenService.
func NewTokenService(opts TokenServiceOptions) (*TokenService, error) {
	if opts.Secret == "" {
		return nil, ErrMissingSecret
	}
	s := &TokenService{
		secret:     []byte(opts.Secret),
		sessionTTL: opts.SessionTTL,
		resetTTL:   opts.ResetTTL,
		denylist:   opts.Denylist,
		now:        opts.Now,
		logger:     opts.Logger,
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = DefaultSessionTTL
	}
	if s.resetTTL <= 0 {
		s.resetTTL = DefaultResetTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "token_service")
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

func (s *TokenService) registered(ttl time.Duration, subject string) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    TokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenService) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}

// IssueSessionToken signs a session token carrying the user's identity and role.
func (s *TokenService) IssueSessionToken(u domainauth.User) (string, error) {
	return s.sign(sessionClaims{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             u.Role,
		Type:             domainauth.TokenTypeSession,
		RegisteredClaims: s.registered(s.sessionTTL, u.ID),
	})
}

// IssuePasswordResetToken signs a short-lived token authorizing a password change for userID.
func (s *TokenService) IssuePasswordResetToken(userID string) (string, error) {
	return s.sign(resetClaims{
		UserID:           userID,
		Type:             domainauth.TokenTypePasswordReset,
		RegisteredClaims: s.registered(s.resetTTL, userID),
	})
}

// VerifySessionToken returns the identity in a valid session token.
// Bad signatures, expired or malformed tokens, revoked tokens and reset tokens all yield (nil, false).
func (s *TokenService) VerifySessionToken(ctx context.Context, token string) (*domainauth.Claims, bool) {
	var c sessionClaims
	if _, err := s.parser.ParseWithClaims(token, &c, s.keyFunc); err != nil {
		return nil, false
	}
	if c.Type == domainauth.TokenTypePasswordReset || (c.Type != "" && c.Type != domainauth.TokenTypeSession) {
		return nil, false
	}
	if c.ID == "" {
		return nil, false
	}
	if s.revoked(ctx, c.RegisteredClaims.ID) {
		return nil, false
	}
	return &domainauth.Claims{ID: c.ID, Email: c.Email, Name: c.Name, Role: c.Role}, true
}

// VerifyResetToken returns the user id in a valid reset token.
// Anything other than an unexpired, correctly signed token of type password-reset yields (nil, false).
func (s *TokenService) VerifyResetToken(ctx context.Context, token string) (*domainauth.ResetClaims, bool) {
	var c resetClaims
	if _, err := s.parser.ParseWithClaims(token, &c, s.keyFunc); err != nil {
		return nil, false
	}
	if c.Type != domainauth.TokenTypePasswordReset || c.UserID == "" {
		return nil, false
	}
	if s.revoked(ctx, c.RegisteredClaims.ID) {
		return nil, false
	}
	return &domainauth.ResetClaims{UserID: c.UserID}, true
}

// revoked consults the denylist. Lookup failures count as revoked.
func (s *TokenService) revoked(ctx context.Context, jti string) bool {
	if s.denylist == nil {
		return false
	}
	if jti == "" {
		return true
	}
	revoked, err := s.denylist.IsRevoked(ctx, jti)
	if err != nil {
		s.logger.WarnContext(ctx, "token denylist lookup failed", "error", err)
		return true
	}
	return revoked
}

// SessionTTL is the lifetime given to new session tokens.
func (s *TokenService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// RevocationEnabled reports whether Revoke has any effect.
func (s *TokenService) RevocationEnabled() bool {
	return s.denylist != nil
}

// Revoke denylists a token of either kind for the rest of its lifetime.
// Invalid tokens and a missing denylist are no-ops.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if s.denylist == nil || token == "" {
		return nil
	}
	var c jwt.RegisteredClaims
	if _, err := s.parser.ParseWithClaims(token, &c, s.keyFunc); err != nil {
		return nil //nolint:nilerr // nothing to revoke
	}
	if c.ID == "" || c.ExpiresAt == nil {
		return nil
	}
	ttl := c.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, c.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
