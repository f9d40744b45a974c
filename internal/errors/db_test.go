package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError_Passthrough(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, MapDBError(plain))
}

func TestMapDBError_ContextAndNoRows(t *testing.T) {
	assert.True(t, IsTimeout(MapDBError(context.DeadlineExceeded)))
	assert.True(t, IsCanceled(MapDBError(context.Canceled)))
	assert.True(t, IsNotFound(MapDBError(fmt.Errorf("get user: %w", pgx.ErrNoRows))))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
		wantMsg   string
	}{
		{
			name:      "email via detail",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, Detail: `Key (email)=(a@x.com) already exists.`},
			wantField: "email",
			wantMsg:   "A user with this email already exists",
		},
		{
			name:      "email via lower() expression index",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, Detail: `Key (lower(email))=(a@x.com) already exists.`},
			wantField: "email",
			wantMsg:   "A user with this email already exists",
		},
		{
			name:      "constraint name inference",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
			wantField: "email",
			wantMsg:   "A user with this email already exists",
		},
		{
			name:      "other column",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "slug"},
			wantField: "slug",
			wantMsg:   "This value already exists. Please choose a different one.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			appErr, ok := As(err)
			assert.True(t, ok)
			assert.Equal(t, ErrCodeConflict, appErr.Code)
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestMapDBError_OtherConstraints(t *testing.T) {
	fk := MapDBError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, TableName: "users"})
	assert.True(t, IsForeignKey(fk))
	assert.Contains(t, fk.Error(), "user does not exist")

	assert.True(t, IsValidation(MapDBError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "role"})))
	assert.Equal(t, "name", GetField(MapDBError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "name"})))
	assert.True(t, IsInternal(MapDBError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected})))
}
