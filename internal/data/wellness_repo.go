package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/target/blogger-api/internal/core"
	"github.com/target/blogger-api/internal/data/pgxutil"
	"github.com/target/blogger-api/internal/domain/model"
	apperrors "github.com/target/blogger-api/internal/errors"
)

const (
	wellnessColumns     = `id, user_id, mood, stress, notes, created_at`
	wellnessInsertQuery = `
		INSERT INTO wellness_checkins (user_id, mood, stress, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + wellnessColumns
	wellnessListQuery = `
		SELECT ` + wellnessColumns + `
		FROM wellness_checkins
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	wellnessCountQuery = `SELECT COUNT(*) FROM wellness_checkins WHERE user_id = $1`
	wellnessStatsQuery = `
		SELECT COUNT(*), COALESCE(AVG(stress), 0)::float8, COUNT(DISTINCT user_id)
		FROM wellness_checkins`
	wellnessMoodQuery = `
		SELECT mood, COUNT(*)::int AS count
		FROM wellness_checkins
		GROUP BY mood
		ORDER BY mood`
)

// WellnessRepo provides database operations for wellness check-ins.
type WellnessRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewWellnessRepo creates a new WellnessRepo with real time provider.
func NewWellnessRepo(db *sql.DB) *WellnessRepo {
	return &WellnessRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewWellnessRepoWithTimeProvider creates a new WellnessRepo with a custom time provider.
func NewWellnessRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *WellnessRepo {
	return &WellnessRepo{DB: db, timeProvider: tp}
}

// Create inserts a check-in.
func (r *WellnessRepo) Create(ctx context.Context, req *model.CreateWellnessRequest) (*model.WellnessCheckin, error) {
	if req == nil {
		return nil, apperrors.Validation("create wellness request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	var out model.WellnessCheckin
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, wellnessInsertQuery,
			req.UserID, string(req.Mood), *req.Stress, req.Notes, r.timeProvider.Now())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WellnessCheckin])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByUser returns one page of the owner's check-ins, newest first.
func (r *WellnessRepo) ListByUser(
	ctx context.Context,
	opts model.WellnessListOptions,
) ([]*model.WellnessCheckin, error) {
	limit, offset := opts.Limit, opts.Offset
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.WellnessCheckin
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, wellnessListQuery, opts.UserID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.WellnessCheckin])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list wellness checkins: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.WellnessCheckin, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CountByUser returns how many check-ins the owner has recorded.
func (r *WellnessRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, wellnessCountQuery, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count wellness checkins: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

// Stats returns organisation-wide totals without any per-user data.
func (r *WellnessRepo) Stats(ctx context.Context) (core.WellnessStats, error) {
	var s core.WellnessStats
	err := r.DB.QueryRowContext(ctx, wellnessStatsQuery).Scan(&s.TotalCheckins, &s.AvgStress, &s.UsersWithCheckins)
	if err != nil {
		return core.WellnessStats{}, fmt.Errorf("failed to load wellness stats: %w", apperrors.MapDBError(err))
	}
	return s, nil
}

// MoodDistribution counts check-ins per mood. Moods with no check-ins are omitted.
func (r *WellnessRepo) MoodDistribution(ctx context.Context) ([]model.MoodCount, error) {
	var out []model.MoodCount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, wellnessMoodQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.MoodCount])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load mood distribution: %w", apperrors.MapDBError(err))
	}
	return out, nil
}
