// Package core defines the repository ports the auth and wellness services depend on.
package core

import (
	"context"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for account persistence.
//
// Create must surface a duplicate email as a Conflict error; uniqueness is
// enforced by storage, not by a prior lookup.
type UserRepository interface {
	Create(ctx context.Context, u domainauth.NewUser) (*domainauth.User, error)
	GetByID(ctx context.Context, id string) (*domainauth.User, error)
	GetByEmail(ctx context.Context, email string) (*domainauth.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateRole(ctx context.Context, id string, role domainauth.Role) (*domainauth.User, error)
	List(ctx context.Context, limit, offset int) ([]*domainauth.User, error)
	Count(ctx context.Context) (int, error)
}

// AppendPasswordHistoryParams groups parameters for PasswordHistoryRepository.Append.
type AppendPasswordHistoryParams struct {
	UserID string
	Hash   string
	// Keep is the number of most recent entries to retain after the insert.
	Keep int
}

// PasswordHistoryRepository stores previously used password hashes.
type PasswordHistoryRepository interface {
	// ListRecent returns up to limit entries for the user, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]domainauth.PasswordHistoryEntry, error)
	// Append inserts a new entry and evicts everything past the Keep most recent.
	Append(ctx context.Context, params AppendPasswordHistoryParams) error
}

// WellnessStats is the raw aggregate returned by WellnessRepository.Stats.
type WellnessStats struct {
	TotalCheckins     int
	AvgStress         float64
	UsersWithCheckins int
}

// WellnessRepository defines the interface for wellness check-in persistence.
// Reads are always scoped to a single owner.
type WellnessRepository interface {
	Create(ctx context.Context, req *model.CreateWellnessRequest) (*model.WellnessCheckin, error)
	ListByUser(ctx context.Context, opts model.WellnessListOptions) ([]*model.WellnessCheckin, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Stats(ctx context.Context) (WellnessStats, error)
	MoodDistribution(ctx context.Context) ([]model.MoodCount, error)
}
