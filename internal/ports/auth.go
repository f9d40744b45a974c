package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/service; orchestration in internal/service.

import (
	"context"
	"time"
)

// PasswordHasher computes and checks salted one-way password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	// Verify reports whether password matches hash. Malformed hashes never match.
	Verify(ctx context.Context, password, hash string) bool
}

// PasswordResetEmail carries the data for a reset message.
type PasswordResetEmail struct {
	To       string
	Name     string
	ResetURL string
}

// WelcomeEmail carries the data for a signup greeting.
type WelcomeEmail struct {
	To   string
	Name string
}

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, msg PasswordResetEmail) error
	SendWelcome(ctx context.Context, msg WelcomeEmail) error
}

// TokenDenylist records revoked token identifiers until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
