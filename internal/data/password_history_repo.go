package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/target/blogger-api/internal/core"
	"github.com/target/blogger-api/internal/data/pgxutil"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	apperrors "github.com/target/blogger-api/internal/errors"
)

const (
	historyColumns     = `id, user_id, password_hash, created_at`
	historyRecentQuery = `
		SELECT ` + historyColumns + `
		FROM password_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	// Row lock on the owner serializes concurrent appends for the same user.
	historyLockOwnerQuery = `SELECT id FROM users WHERE id = $1 FOR UPDATE`
	historyInsertQuery    = `INSERT INTO password_history (user_id, password_hash, created_at) VALUES ($1, $2, $3)`
	historyEvictQuery     = `
		DELETE FROM password_history
		WHERE user_id = $1
		  AND id NOT IN (
			SELECT id FROM password_history
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		  )`
)

// PasswordHistoryRepo stores previously used password hashes per account.
type PasswordHistoryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPasswordHistoryRepo creates a new PasswordHistoryRepo.
func NewPasswordHistoryRepo(db *sql.DB) *PasswordHistoryRepo {
	return &PasswordHistoryRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewPasswordHistoryRepoWithTimeProvider creates a new PasswordHistoryRepo with a custom clock.
func NewPasswordHistoryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PasswordHistoryRepo {
	return &PasswordHistoryRepo{DB: db, timeProvider: tp}
}

// ListRecent returns up to limit entries for userID, newest first.
func (r *PasswordHistoryRepo) ListRecent(
	ctx context.Context,
	userID string,
	limit int,
) ([]domainauth.PasswordHistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	var out []domainauth.PasswordHistoryEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, historyRecentQuery, userID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[domainauth.PasswordHistoryEntry])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list password history: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// Append records hash for the user and evicts all but the Keep newest entries.
// The owner row is locked for the duration so concurrent appends cannot leave
// more than Keep entries behind.
func (r *PasswordHistoryRepo) Append(ctx context.Context, params core.AppendPasswordHistoryParams) error {
	if params.UserID == "" {
		return apperrors.ValidationField("user_id", "user_id is required")
	}
	keep := params.Keep
	if keep <= 0 {
		keep = 1
	}

	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		var ownerID string
		if err := tx.QueryRow(ctx, historyLockOwnerQuery, params.UserID).Scan(&ownerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, historyInsertQuery, params.UserID, params.Hash, r.timeProvider.Now()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, historyEvictQuery, params.UserID, keep)
		return err
	}})
	if err != nil {
		return fmt.Errorf("append password history: %w", apperrors.MapDBError(err))
	}
	return nil
}
