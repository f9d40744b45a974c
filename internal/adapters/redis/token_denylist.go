package redis

// Package redis provides Redis-based adapters for the blogger API.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDenylistPrefix namespaces revoked token ids.
const DefaultDenylistPrefix = "auth:revoked:"

// ErrEmptyTokenID is returned when revoking a token without a jti.
var ErrEmptyTokenID = errors.New("token id cannot be empty")

// TokenDenylist records revoked session token ids until their natural expiry.
// Keys expire with the token, so the set never outgrows the live token population.
type TokenDenylist struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenDenylist creates a denylist using DefaultDenylistPrefix.
func NewTokenDenylist(client redis.UniversalClient) *TokenDenylist {
	return NewTokenDenylistWithPrefix(client, DefaultDenylistPrefix)
}

// NewTokenDenylistWithPrefix creates a denylist with a custom key prefix.
func NewTokenDenylistWithPrefix(client redis.UniversalClient, prefix string) *TokenDenylist {
	return &TokenDenylist{client: client, prefix: prefix}
}

// Revoke marks id as revoked for ttl. A non-positive ttl means the token has
// already expired and nothing is stored.
func (d *TokenDenylist) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if id == "" {
		return ErrEmptyTokenID
	}
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.prefix+id, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// IsRevoked reports whether id has been revoked. Errors are returned to the
// caller, which decides whether to fail closed.
func (d *TokenDenylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	n, err := d.client.Exists(ctx, d.prefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
