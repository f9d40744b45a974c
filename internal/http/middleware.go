package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/observability/metrics"
	"github.com/target/blogger-api/internal/observability/statsd"
	"github.com/target/blogger-api/internal/service"
)

const (
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"
	// TokenCookieName is the cookie fallback for the session credential.
	TokenCookieName = "token"

	maxRequestIDLen = 128
)

// Authorizer decides whether a credential may proceed. Implemented by *service.Authorizer.
type Authorizer interface {
	Authenticate(ctx context.Context, credential string) service.AuthResult
	Authorize(ctx context.Context, credential string, perm domainauth.Permission) service.AuthResult
}

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed is outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestID returns a middleware that propagates an inbound X-Request-ID or mints a new one.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(SetRequestIDInContext(r.Context(), id)))
		})
	}
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", RequestIDFromContext(r.Context())),
			)
		})
	}
}

// Metrics returns a middleware that emits a request counter and latency per
// route pattern. It must wrap the ServeMux directly so r.Pattern is visible,
// which puts it inside Recover: a panicking handler is counted as a 500 and
// the panic keeps unwinding to Recover.
func Metrics(sink statsd.Sink) Middleware {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			returned := false
			defer func() {
				status := ww.status
				if !returned {
					status = http.StatusInternalServerError
				}
				metrics.EmitRequest(sink, metrics.RequestMetric{
					Method:   r.Method,
					Route:    r.Pattern,
					Status:   status,
					Duration: time.Since(start),
				})
			}()
			next.ServeHTTP(ww, r)
			returned = true
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *respWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler { //nolint:errorlint,err113 // sentinel comparison on recovered value
						panic(err)
					}
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("request_id", RequestIDFromContext(r.Context())),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, ErrorParams{
						Code:    http.StatusInternalServerError,
						ErrCode: string(apperrors.ErrCodeInternal),
						Err:     errors.New(internalErrorMessage),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CredentialFromRequest extracts the session credential: a Bearer Authorization
// header wins, the token cookie is the fallback.
func CredentialFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, value, ok := strings.Cut(strings.TrimSpace(h), " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if tok := strings.TrimSpace(value); tok != "" {
				return tok
			}
		}
	}
	if c, err := r.Cookie(TokenCookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// RequireAuth returns a middleware that requires a valid session credential.
// Verified claims are attached to the request context.
func RequireAuth(authz Authorizer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := authz.Authenticate(r.Context(), CredentialFromRequest(r))
			serveAuthResult(w, r, res, next)
		})
	}
}

// RequirePermission returns a middleware that requires a valid credential whose
// role grants perm. A missing or bad credential yields 401, a valid credential
// lacking the permission yields 403.
func RequirePermission(authz Authorizer, perm domainauth.Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := authz.Authorize(r.Context(), CredentialFromRequest(r), perm)
			serveAuthResult(w, r, res, next)
		})
	}
}

func serveAuthResult(w http.ResponseWriter, r *http.Request, res service.AuthResult, next http.Handler) {
	switch res.Kind {
	case service.AuthOK:
		if res.Claims == nil {
			break
		}
		next.ServeHTTP(w, r.WithContext(SetClaimsInContext(r.Context(), res.Claims)))
		return
	case service.AuthForbidden:
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: string(apperrors.ErrCodeForbidden),
			Err:     errors.New(res.Reason),
		})
		return
	case service.AuthUnauthorized:
	}
	reason := res.Reason
	if reason == "" {
		reason = service.ReasonInvalidToken
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: string(apperrors.ErrCodeUnauthorized),
		Err:     errors.New(reason),
	})
}
