package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/blogger-api/internal/core"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	apperrors "github.com/target/blogger-api/internal/errors"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo   core.UserRepository
	Logger *slog.Logger
}

// UserService provides account administration.
type UserService struct {
	repo   core.UserRepository
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: opts.Repo, logger: logger.With("component", "user_service")}
}

// UserPage is one page of accounts.
type UserPage struct {
	Items []*domainauth.User
	Total int
}

// List returns accounts ordered by creation time.
func (s *UserService) List(ctx context.Context, limit, offset int) (*UserPage, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &UserPage{Items: items, Total: total}, nil
}

// GetByID returns a single account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domainauth.User, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateRoleInput groups parameters for UpdateRole.
type UpdateRoleInput struct {
	Actor  domainauth.Claims
	UserID string
	Role   string
}

// UpdateRole changes an account's role. Admins cannot change their own role.
func (s *UserService) UpdateRole(ctx context.Context, in UpdateRoleInput) (*domainauth.User, error) {
	role, ok := domainauth.ParseRole(in.Role)
	if !ok {
		return nil, apperrors.ValidationField("role", "role must be one of: admin, editor, reader")
	}
	if in.UserID == "" {
		return nil, apperrors.ValidationField("id", "id is required")
	}
	if in.UserID == in.Actor.ID {
		return nil, apperrors.ValidationField("id", "you cannot change your own role")
	}

	user, err := s.repo.UpdateRole(ctx, in.UserID, role)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user role updated",
		"user_id", user.ID, "role", user.Role, "actor_id", in.Actor.ID)
	return user, nil
}
