package httpx

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/service"
)

// stubAuthorizer returns a fixed result and records the credential it saw.
type stubAuthorizer struct {
	res  service.AuthResult
	seen string
	perm domainauth.Permission
}

func (s *stubAuthorizer) Authenticate(_ context.Context, credential string) service.AuthResult {
	s.seen = credential
	return s.res
}

func (s *stubAuthorizer) Authorize(_ context.Context, credential string, perm domainauth.Permission) service.AuthResult {
	s.seen = credential
	s.perm = perm
	return s.res
}

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = io.WriteString(w, claims.ID)
	})
}

func TestCredentialFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "bearer header", header: "Bearer abc", want: "abc"},
		{name: "scheme is case insensitive", header: "bearer abc", want: "abc"},
		{name: "bearer wins over cookie", header: "Bearer from-header", cookie: "from-cookie", want: "from-header"},
		{name: "cookie fallback", cookie: "from-cookie", want: "from-cookie"},
		{name: "non bearer scheme falls back to cookie", header: "Basic dXNlcjpwYXNz", cookie: "c", want: "c"},
		{name: "empty bearer falls back to cookie", header: "Bearer ", cookie: "c", want: "c"},
		{name: "nothing", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, CredentialFromRequest(r))
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("attaches claims", func(t *testing.T) {
		authz := &stubAuthorizer{res: service.AuthResult{Kind: service.AuthOK, Claims: &domainauth.Claims{ID: "u1"}}}
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()

		RequireAuth(authz)(okHandler(t)).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
		assert.Equal(t, "tok", authz.seen)
	})

	t.Run("unauthorized carries reason", func(t *testing.T) {
		authz := &stubAuthorizer{res: service.AuthResult{Kind: service.AuthUnauthorized, Reason: service.ReasonNoToken}}
		rec := httptest.NewRecorder()

		RequireAuth(authz)(okHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, service.ReasonNoToken, decodeError(t, rec).Message)
	})

	t.Run("ok without claims is refused", func(t *testing.T) {
		authz := &stubAuthorizer{res: service.AuthResult{Kind: service.AuthOK}}
		rec := httptest.NewRecorder()

		RequireAuth(authz)(okHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, service.ReasonInvalidToken, decodeError(t, rec).Message)
	})
}

func TestRequirePermission(t *testing.T) {
	authz := &stubAuthorizer{res: service.AuthResult{
		Kind:   service.AuthForbidden,
		Reason: "You don't have permission to perform this action. Required: users:update",
	}}
	rec := httptest.NewRecorder()

	RequirePermission(authz, domainauth.PermUsersUpdate)(okHandler(t)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domainauth.PermUsersUpdate, authz.perm)
	body := decodeError(t, rec)
	assert.Equal(t, "forbidden", body.Error)
	assert.Contains(t, body.Message, "users:update")
}

func TestRouter_PermissionMatrix(t *testing.T) {
	f := newAPIFixture(t)
	_, reader := f.tokenAs(t, "reader@example.com", domainauth.RoleReader)
	_, editor := f.tokenAs(t, "editor@example.com", domainauth.RoleEditor)
	_, admin := f.tokenAs(t, "admin@example.com", domainauth.RoleAdmin)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{name: "aggregate without token", path: "/api/wellness/aggregate", want: http.StatusUnauthorized},
		{name: "aggregate as reader", path: "/api/wellness/aggregate", token: reader, want: http.StatusForbidden},
		{name: "aggregate as editor", path: "/api/wellness/aggregate", token: editor, want: http.StatusForbidden},
		{name: "aggregate as admin", path: "/api/wellness/aggregate", token: admin, want: http.StatusOK},
		{name: "users as reader", path: "/api/users", token: reader, want: http.StatusForbidden},
		{name: "users as admin", path: "/api/users", token: admin, want: http.StatusOK},
		{name: "own wellness as reader", path: "/api/wellness", token: reader, want: http.StatusOK},
		{name: "garbage token", path: "/api/wellness", token: "not.a.jwt", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, tt.path, nil, requestOpts{token: tt.token})
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_BearerPreferredOverCookie(t *testing.T) {
	f := newAPIFixture(t)
	readerID, reader := f.tokenAs(t, "reader@example.com", domainauth.RoleReader)
	_, admin := f.tokenAs(t, "admin@example.com", domainauth.RoleAdmin)

	rec := f.do(t, http.MethodGet, "/api/users", nil, requestOpts{token: reader, cookie: admin})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	me := f.do(t, http.MethodGet, "/api/auth/me", nil, requestOpts{token: reader, cookie: admin})
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), readerID)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("propagates inbound id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", seen)
	})

	t.Run("mints id when missing or oversized", func(t *testing.T) {
		for _, in := range []string{"", strings.Repeat("x", maxRequestIDLen+1)} {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if in != "" {
				r.Header.Set(RequestIDHeader, in)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			got := rec.Header().Get(RequestIDHeader)
			assert.Len(t, got, 36)
			assert.Equal(t, got, seen)
		}
	})
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), Recover(logger))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "internal", body.Error)
	assert.Equal(t, internalErrorMessage, body.Message)
	assert.NotContains(t, rec.Body.String(), "boom")
	assert.Contains(t, logs.String(), "boom")
	assert.Contains(t, logs.String(), "/explode")
}

func TestRecover_RepanicsAbortHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLogging_RecordsStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/things", nil))

	out := logs.String()
	assert.Contains(t, out, "status=202")
	assert.Contains(t, out, "path=/things")
	assert.Contains(t, out, "method=POST")
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }),
		mw("first"), mw("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
