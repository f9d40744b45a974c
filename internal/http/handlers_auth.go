package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/http/validation"
	"github.com/target/blogger-api/internal/observability/metrics"
	"github.com/target/blogger-api/internal/observability/statsd"
	"github.com/target/blogger-api/internal/service"
)

const (
	maxNameLength        = 100
	validationFailedMsg  = "Validation failed"
	defaultCookieMaxAge  = 7 * 24 * time.Hour
	authenticationNeeded = "authentication required"
)

// AuthHandlers serves signup, login, password reset and session endpoints.
type AuthHandlers struct {
	Svc          *service.AuthService
	CookieDomain string
	SessionTTL   time.Duration
	Logger       *slog.Logger
	// Metrics receives one auth.outcome per service call (optional).
	Metrics statsd.Sink
}

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type meResponse struct {
	User        *domainauth.User        `json:"user"`
	Permissions []domainauth.Permission `json:"permissions"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	fv := validation.New().
		Validate("email", req.Email, validation.Email("Email")).
		Validate("name", req.Name, validation.RequiredRange("Name", 1, maxNameLength)).
		Validate("password", req.Password, validation.NotBlank("Password"))
	if !fv.Valid() {
		writeValidation(w, validationFailedMsg, fv.Messages())
		return
	}

	sess, err := h.Svc.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	h.record("signup", err)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	h.setSessionCookie(w, r, sess.Token)
	WriteJSON(w, http.StatusCreated, sess)
}

// Login handles POST /api/auth/login. Wrong password and unknown email share one response.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	fv := validation.New().
		Validate("email", req.Email, validation.Email("Email")).
		Validate("password", req.Password, validation.NotBlank("Password"))
	if !fv.Valid() {
		writeValidation(w, validationFailedMsg, fv.Messages())
		return
	}

	sess, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	h.record("login", err)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	h.setSessionCookie(w, r, sess.Token)
	WriteJSON(w, http.StatusOK, sess)
}

// RequestReset handles POST /api/auth/request-reset and its alias. The body
// is identical whether or not the account exists.
func (h *AuthHandlers) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	fv := validation.New().Validate("email", req.Email, validation.Email("Email"))
	if !fv.Valid() {
		writeValidation(w, validationFailedMsg, fv.Messages())
		return
	}

	msg, err := h.Svc.RequestPasswordReset(r.Context(), req.Email)
	h.record("request_reset", err)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// ConfirmReset handles POST /api/auth/reset-password/confirm.
func (h *AuthHandlers) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	fv := validation.New().
		Validate("token", req.Token, validation.Required("Reset token", 4096)).
		Validate("password", req.Password, validation.NotBlank("Password"))
	if !fv.Valid() {
		writeValidation(w, validationFailedMsg, fv.Messages())
		return
	}

	err := h.Svc.ConfirmPasswordReset(r.Context(), strings.TrimSpace(req.Token), req.Password)
	h.record("reset_confirm", err)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, messageResponse{Message: service.PasswordResetMessage})
}

// Logout handles POST /api/auth/logout. It always clears the cookie; revocation
// failures are logged, not surfaced.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if tok := CredentialFromRequest(r); tok != "" {
		if err := h.Svc.Logout(r.Context(), tok); err != nil && h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "token revocation failed", slog.Any("error", err))
		}
	}
	h.clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// Me handles GET /api/auth/me. Requires RequireAuth upstream.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: errors.New(authenticationNeeded)})
		return
	}
	user, err := h.Svc.CurrentUser(r.Context(), claims)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, meResponse{User: user, Permissions: domainauth.PermissionsFor(user.Role)})
}

// record emits the outcome of a service call. Errors that map to a 4xx are client rejections.
func (h *AuthHandlers) record(op string, err error) {
	if h.Metrics == nil {
		return
	}
	rejected := false
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		rejected = StatusFor(appErr.Code) < http.StatusInternalServerError
	}
	metrics.EmitAuth(h.Metrics, metrics.AuthMetric{Operation: op, Rejected: rejected, Err: err})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	ttl := h.SessionTTL
	if ttl <= 0 {
		ttl = defaultCookieMaxAge
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie mirrors the attributes used when setting the cookie so browsers drop it.
func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}
