package data

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/target/blogger-api/internal/migrate"
)

// RunMigrations applies pending schema migrations and logs how many were applied.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	applied, err := migrate.RunWithLogger(ctx, db, logger)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.InfoContext(ctx, "migrations complete", "applied", len(applied))
	}
	return nil
}
