package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "User not found"},
			want: "User not found",
		},
		{
			name: "error with cause",
			err:  &AppError{Code: ErrCodeInternal, Message: "failed to hash", Cause: errors.New("boom")},
			want: "failed to hash: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestConstructorsAndPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		is   func(error) bool
	}{
		{"not found", NotFound("x"), ErrCodeNotFound, IsNotFound},
		{"conflict", Conflict("x"), ErrCodeConflict, IsConflict},
		{"validation", Validation("x"), ErrCodeValidation, IsValidation},
		{"unauthorized", Unauthorized("x"), ErrCodeUnauthorized, IsUnauthorized},
		{"forbidden", Forbidden("x"), ErrCodeForbidden, IsForbidden},
		{"invalid token", InvalidToken("x"), ErrCodeInvalidToken, IsInvalidToken},
		{"password reused", PasswordReused("x"), ErrCodePasswordReused, IsPasswordReused},
		{"foreign key", ForeignKey("x"), ErrCodeForeignKey, IsForeignKey},
		{"internal", Internal("x"), ErrCodeInternal, IsInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.True(t, tt.is(tt.err))
			assert.True(t, tt.is(fmt.Errorf("outer: %w", tt.err)), "predicate should see through wrapping")
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))

	cause := errors.New("root")
	err := Wrapf(cause, ErrCodeInternal, "op %s failed", "hash")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "op hash failed", err.Message)
}

func TestValidationDetails(t *testing.T) {
	err := ValidationDetails("password", "Password does not meet requirements", []string{"a", "b"})
	appErr, ok := As(fmt.Errorf("wrap: %w", err))
	require.True(t, ok)
	assert.Equal(t, "password", appErr.Field)
	assert.Equal(t, []string{"a", "b"}, appErr.Details)
	assert.Equal(t, "password", GetField(err))
}

func TestGetCode_NonAppError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
}
