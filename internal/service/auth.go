package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/blogger-api/internal/core"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/ports"
)

// Client-facing messages for the auth flows.
const (
	ResetRequestedMessage = "If an account exists with this email, a password reset link has been sent."
	PasswordResetMessage  = "Password reset successfully"
	InvalidCredentialsMsg = "Invalid email or password"
	InvalidResetTokenMsg  = "Invalid or expired token"
	UserNotFoundMsg       = "User not found"
	PasswordReusedMsg     = "You cannot reuse a recently used password"
	DuplicateEmailMsg     = "A user with this email already exists"
)

const (
	resetPasswordPath    = "/reset-password"
	timingEqualizerPlain = "timing-equalizer-password"
	defaultAppBaseURL    = "http://localhost:3000"

	defaultMailTimeout     = 30 * time.Second
	defaultMailConcurrency = 32
	equalizerHashTimeout   = 10 * time.Second
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users     core.UserRepository
	Passwords *PasswordService
	Tokens    *TokenService
	Mailer    ports.Mailer
	// AppBaseURL prefixes password reset links.
	AppBaseURL string
	// MailTimeout bounds one background delivery. Zero means 30s.
	MailTimeout time.Duration
	// MailConcurrency caps deliveries in flight; extra messages are dropped and logged. Zero means 32.
	MailConcurrency int
	Logger          *slog.Logger
}

// AuthService orchestrates signup, login and the password reset flow.
type AuthService struct {
	users      core.UserRepository
	passwords  *PasswordService
	tokens     *TokenService
	mailer     ports.Mailer
	appBaseURL string
	logger     *slog.Logger

	mail        *errgroup.Group
	mailTimeout time.Duration

	dummyMu   sync.Mutex
	dummyHash string
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(opts.AppBaseURL, "/")
	if base == "" {
		base = defaultAppBaseURL
	}
	timeout := opts.MailTimeout
	if timeout <= 0 {
		timeout = defaultMailTimeout
	}
	limit := opts.MailConcurrency
	if limit <= 0 {
		limit = defaultMailConcurrency
	}
	mail := new(errgroup.Group)
	mail.SetLimit(limit)
	return &AuthService{
		users:       opts.Users,
		passwords:   opts.Passwords,
		tokens:      opts.Tokens,
		mailer:      opts.Mailer,
		appBaseURL:  base,
		logger:      logger.With("component", "auth_service"),
		mail:        mail,
		mailTimeout: timeout,
	}
}

// SignupInput groups the fields submitted at signup.
type SignupInput struct {
	Email    string
	Name     string
	Password string
}

// AuthSession is an authenticated user together with a freshly issued session token.
type AuthSession struct {
	User  *domainauth.User `json:"user"`
	Token string           `json:"token"`
}

// NormalizeEmail trims and lower-cases an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a reader account and returns it with a session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthSession, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" {
		return nil, apperrors.ValidationField("email", "Email is required")
	}
	if name == "" {
		return nil, apperrors.ValidationField("name", "Name is required")
	}
	if err := s.passwords.RequireStrong(in.Password); err != nil {
		return nil, err
	}

	// Early exit for the common case; the unique index still decides races.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict(DuplicateEmailMsg)
	} else if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := s.passwords.HashPassword(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, domainauth.NewUser{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		if apperrors.IsConflict(err) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, DuplicateEmailMsg)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.passwords.SavePasswordHistory(ctx, user.ID, hash); err != nil {
		s.logger.ErrorContext(ctx, "failed to record initial password history", "user_id", user.ID, "error", err)
	}

	token, err := s.tokens.IssueSessionToken(*user)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	welcome := ports.WelcomeEmail{To: user.Email, Name: user.Name}
	s.sendInBackground(ctx, "welcome", user.ID, func(ctx context.Context) error {
		return s.mailer.SendWelcome(ctx, welcome)
	})

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID, "role", user.Role)
	return &AuthSession{User: user, Token: token}, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// produce the same Unauthorized error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return nil, fmt.Errorf("lookup user by email: %w", err)
		}
		// Spend the same bcrypt work as a real comparison.
		s.passwords.VerifyPassword(ctx, password, s.timingEqualizerHash(ctx))
		s.logger.InfoContext(ctx, "login failed", "reason", "unknown_email")
		return nil, apperrors.Unauthorized(InvalidCredentialsMsg)
	}

	if !s.passwords.VerifyPassword(ctx, password, user.PasswordHash) {
		s.logger.InfoContext(ctx, "login failed", "reason", "password_mismatch", "user_id", user.ID)
		return nil, apperrors.Unauthorized(InvalidCredentialsMsg)
	}

	token, err := s.tokens.IssueSessionToken(*user)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &AuthSession{User: user, Token: token}, nil
}

// timingEqualizerHash returns a hash to compare against when the email is
// unknown. It is computed outside the request's cancellation and kept only once
// hashing succeeds, so a failed attempt is retried by the next caller.
func (s *AuthService) timingEqualizerHash(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != "" {
		return s.dummyHash
	}

	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), equalizerHashTimeout)
	defer cancel()
	h, err := s.passwords.HashPassword(hctx, timingEqualizerPlain)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to prepare timing equalizer hash", "error", err)
		return ""
	}
	s.dummyHash = h
	return h
}

// sendInBackground hands delivery to the mail group so the caller's latency
// does not depend on the mail server. The send gets its own deadline and
// survives cancellation of the request context.
func (s *AuthService) sendInBackground(ctx context.Context, kind, userID string, send func(context.Context) error) {
	mctx := context.WithoutCancel(ctx)
	started := s.mail.TryGo(func() error {
		sctx, cancel := context.WithTimeout(mctx, s.mailTimeout)
		defer cancel()
		if err := send(sctx); err != nil {
			s.logger.WarnContext(sctx, kind+" email failed", "user_id", userID, "error", err)
			return nil
		}
		s.logger.InfoContext(sctx, kind+" email sent", "user_id", userID)
		return nil
	})
	if !started {
		s.logger.WarnContext(ctx, kind+" email dropped", "user_id", userID, "reason", "mail queue full")
	}
}

// WaitForMail blocks until every background delivery has finished.
func (s *AuthService) WaitForMail() {
	_ = s.mail.Wait()
}

// RequestPasswordReset emails a reset link when the account exists. The
// returned message is identical either way. Delivery runs in the background
// and its failures are only logged.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", apperrors.ValidationField("email", "Email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return ResetRequestedMessage, nil
		}
		return "", fmt.Errorf("lookup user by email: %w", err)
	}

	token, err := s.tokens.IssuePasswordResetToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}

	msg := ports.PasswordResetEmail{To: user.Email, Name: user.Name, ResetURL: s.resetURL(token)}
	s.sendInBackground(ctx, "password reset", user.ID, func(ctx context.Context) error {
		return s.mailer.SendPasswordReset(ctx, msg)
	})
	return ResetRequestedMessage, nil
}

func (s *AuthService) resetURL(token string) string {
	return s.appBaseURL + resetPasswordPath + "?token=" + url.QueryEscape(token)
}

// ConfirmPasswordReset sets a new password for the user named in a reset token.
// The new hash is stored first and then appended to the history.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.ValidationField("token", "Reset token is required")
	}
	if err := s.passwords.RequireStrong(newPassword); err != nil {
		return err
	}

	claims, ok := s.tokens.VerifyResetToken(ctx, token)
	if !ok {
		return apperrors.InvalidToken(InvalidResetTokenMsg)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound(UserNotFoundMsg)
		}
		return fmt.Errorf("get user: %w", err)
	}

	reused, err := s.passwords.CheckPasswordHistory(ctx, user.ID, newPassword)
	if err != nil {
		return err
	}
	if reused {
		return apperrors.PasswordReused(PasswordReusedMsg)
	}

	hash, err := s.passwords.HashPassword(ctx, newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound(UserNotFoundMsg)
		}
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.passwords.SavePasswordHistory(ctx, user.ID, hash); err != nil {
		s.logger.ErrorContext(ctx, "failed to record password history", "user_id", user.ID, "error", err)
	}

	if err := s.tokens.Revoke(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke used reset token", "user_id", user.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "password reset completed", "user_id", user.ID)
	return nil
}

// Logout revokes a session token when revocation is enabled.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// errNilUser guards against repositories returning (nil, nil).
var errNilUser = errors.New("repository returned no user")

// CurrentUser loads the account behind verified claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *domainauth.Claims) (*domainauth.User, error) {
	if claims == nil {
		return nil, apperrors.Unauthorized(ReasonNoToken)
	}
	user, err := s.users.GetByID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errNilUser
	}
	return user, nil
}
