package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/target/blogger-api/internal/data/pgxutil"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	apperrors "github.com/target/blogger-api/internal/errors"
)

const userColumns = `id, email, name, password_hash, role, created_at, updated_at`

const (
	userInsertQuery = `
		INSERT INTO users (email, name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + userColumns
	userGetByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	userGetByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	userListQuery       = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	userUpdateHashQuery = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	userUpdateRoleQuery = `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1 RETURNING ` + userColumns
)

const userNotFoundMsg = "User not found"

// UserRepo provides database operations for user accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Create inserts a new account. Emails are stored lower-cased; a duplicate
// surfaces as a Conflict error on the email field.
func (r *UserRepo) Create(ctx context.Context, u domainauth.NewUser) (*domainauth.User, error) {
	role := u.Role
	if role == "" {
		role = domainauth.DefaultRole
	}
	if !role.Valid() {
		return nil, apperrors.ValidationField("role", "Invalid role")
	}

	email := strings.ToLower(strings.TrimSpace(u.Email))
	out, err := r.queryOne(ctx, userInsertQuery,
		email, strings.TrimSpace(u.Name), u.PasswordHash, string(role), r.timeProvider.Now())
	if err != nil {
		return nil, r.mapErr(err)
	}
	return out, nil
}

// GetByID retrieves an account by ID. Malformed IDs are reported as not found.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domainauth.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound(userNotFoundMsg)
	}
	out, err := r.queryOne(ctx, userGetByIDQuery, id)
	if err != nil {
		return nil, r.mapErr(err)
	}
	return out, nil
}

// GetByEmail retrieves an account by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domainauth.User, error) {
	out, err := r.queryOne(ctx, userGetByEmailQuery, strings.TrimSpace(email))
	if err != nil {
		return nil, r.mapErr(err)
	}
	return out, nil
}

// UpdatePasswordHash replaces the stored hash for id.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NotFound(userNotFoundMsg)
	}
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, userUpdateHashQuery, id, hash, r.timeProvider.Now())
		if execErr != nil {
			return execErr
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update password hash: %w", apperrors.MapDBError(err))
	}
	if affected == 0 {
		return apperrors.NotFound(userNotFoundMsg)
	}
	return nil
}

// UpdateRole sets the role of id and returns the updated account.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role domainauth.Role) (*domainauth.User, error) {
	if !role.Valid() {
		return nil, apperrors.ValidationField("role", "Invalid role")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound(userNotFoundMsg)
	}
	out, err := r.queryOne(ctx, userUpdateRoleQuery, id, string(role), r.timeProvider.Now())
	if err != nil {
		return nil, r.mapErr(err)
	}
	return out, nil
}

// List retrieves accounts newest first.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*domainauth.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []domainauth.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userListQuery, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[domainauth.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", apperrors.MapDBError(err))
	}

	res := make([]*domainauth.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the number of accounts.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

func (r *UserRepo) queryOne(ctx context.Context, query string, args ...any) (*domainauth.User, error) {
	var out domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.User])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepo) mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, userNotFoundMsg)
	}
	return apperrors.MapDBError(err)
}
