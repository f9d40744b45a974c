package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/blogger-api/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"app error", apperrors.Conflict("dup"), "conflict"},
		{"wrapped app error", fmt.Errorf("signup: %w", apperrors.InvalidToken("bad")), "invalid_token"},
		{"plain", goerrors.New("boom"), "errors_errorstring"},
		{"wrapped type", fmt.Errorf("listen: %w", &net.AddrError{Err: "missing port", Addr: "db"}), "net_addrerror"},
		{"innermost cause", &net.OpError{Op: "dial", Err: context.DeadlineExceeded}, "context_deadlineexceedederror"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
