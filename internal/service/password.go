package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/target/blogger-api/internal/core"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/ports"
)

// Sentinel causes carried by hashing errors.
var (
	ErrPasswordEmpty   = errors.New("password is empty")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	ErrHashingFailure  = errors.New("password hashing failed")
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// BcryptHasherOptions configures NewBcryptHasher.
type BcryptHasherOptions struct {
	// Cost is the bcrypt work factor. Zero means DefaultBcryptCost.
	Cost int
	// Concurrency bounds simultaneous hash and compare operations. Zero means GOMAXPROCS.
	Concurrency int
}

// BcryptHasher implements ports.PasswordHasher with bcrypt.
// Each operation holds a semaphore slot so a burst of logins cannot starve the CPU.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher constructs a BcryptHasher.
func NewBcryptHasher(opts BcryptHasherOptions) *BcryptHasher {
	cost := opts.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	n := opts.Concurrency
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &BcryptHasher{cost: cost, slots: semaphore.NewWeighted(int64(n))}
}

// Hash returns a salted bcrypt hash of password. Two calls with the same input return different hashes.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", apperrors.Wrap(ErrPasswordEmpty, apperrors.ErrCodeValidation, "Password is required")
	}
	if len(password) > domainauth.MaxPasswordLength {
		return "", apperrors.Wrap(ErrPasswordTooLong, apperrors.ErrCodeValidation, "Password must not exceed 72 characters")
	}

	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.slots.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", apperrors.Wrap(fmt.Errorf("%w: %w", ErrHashingFailure, err), apperrors.ErrCodeInternal, "Failed to hash password")
	}
	return string(b), nil
}

// Verify reports whether password matches hash using bcrypt's constant-time comparison.
// Empty input, a malformed hash, or a canceled context yields false.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.slots.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordServiceOptions groups dependencies for PasswordService.
type PasswordServiceOptions struct {
	Hasher       ports.PasswordHasher
	History      core.PasswordHistoryRepository
	Requirements domainauth.PasswordRequirements
	// HistoryLimit is the number of recent passwords that may not be reused. Zero means 5.
	HistoryLimit int
}

// PasswordService applies the password policy: strength rules, hashing and reuse prevention.
type PasswordService struct {
	hasher       ports.PasswordHasher
	history      core.PasswordHistoryRepository
	requirements domainauth.PasswordRequirements
	historyLimit int
}

// DefaultPasswordHistoryLimit is the number of previous hashes retained per user.
const DefaultPasswordHistoryLimit = 5

// NewPasswordService constructs a new PasswordService.
func NewPasswordService(opts PasswordServiceOptions) *PasswordService {
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultPasswordHistoryLimit
	}
	return &PasswordService{
		hasher:       opts.Hasher,
		history:      opts.History,
		requirements: opts.Requirements,
		historyLimit: limit,
	}
}

// Requirements returns the configured strength policy.
func (s *PasswordService) Requirements() domainauth.PasswordRequirements {
	return s.requirements
}

// ValidateStrength checks password against the configured policy.
func (s *PasswordService) ValidateStrength(password string) domainauth.PasswordValidation {
	return domainauth.ValidatePasswordStrength(password, s.requirements)
}

// RequireStrong returns a Validation error listing every failed rule, or nil.
func (s *PasswordService) RequireStrong(password string) error {
	res := s.ValidateStrength(password)
	if res.Valid {
		return nil
	}
	return apperrors.ValidationDetails("password", "Password does not meet requirements", res.Errors)
}

// HashPassword hashes password.
func (s *PasswordService) HashPassword(ctx context.Context, password string) (string, error) {
	return s.hasher.Hash(ctx, password)
}

// VerifyPassword reports whether password matches hash.
func (s *PasswordService) VerifyPassword(ctx context.Context, password, hash string) bool {
	return s.hasher.Verify(ctx, password, hash)
}

// CheckPasswordHistory reports whether candidate matches any of the user's recent passwords.
func (s *PasswordService) CheckPasswordHistory(ctx context.Context, userID, candidate string) (bool, error) {
	entries, err := s.history.ListRecent(ctx, userID, s.historyLimit)
	if err != nil {
		return false, fmt.Errorf("list password history: %w", err)
	}
	for _, e := range entries {
		if s.hasher.Verify(ctx, candidate, e.PasswordHash) {
			return true, nil
		}
	}
	return false, nil
}

// SavePasswordHistory records hash as the user's newest password and evicts entries past the limit.
func (s *PasswordService) SavePasswordHistory(ctx context.Context, userID, hash string) error {
	err := s.history.Append(ctx, core.AppendPasswordHistoryParams{
		UserID: userID,
		Hash:   hash,
		Keep:   s.historyLimit,
	})
	if err != nil {
		return fmt.Errorf("append password history: %w", err)
	}
	return nil
}
