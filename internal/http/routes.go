package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/observability/statsd"
	"github.com/target/blogger-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       *service.AuthService
	Authorizer Authorizer
	Tokens     *service.TokenService
	Wellness   *service.WellnessService
	Users      *service.UserService
	// Health dependencies pinged by /healthz (optional).
	Health       []Pinger
	CookieDomain string
	Logger       *slog.Logger
	// Metrics receives request and auth metrics (optional).
	Metrics statsd.Sink
}

// NewRouter creates the API router wrapped in request-id, logging, recover and metrics middleware.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := healthHandler(services.Health...)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	if services.Auth != nil {
		h := &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			Logger:       logger,
			Metrics:      services.Metrics,
		}
		if services.Tokens != nil {
			h.SessionTTL = services.Tokens.SessionTTL()
		}
		registerAuthRoutes(mux, h, services.Authorizer)
	}
	if services.Wellness != nil && services.Authorizer != nil {
		registerWellnessRoutes(mux, &WellnessHandlers{Svc: services.Wellness, Logger: logger}, services.Authorizer)
	}
	if services.Users != nil && services.Authorizer != nil {
		registerUserRoutes(mux, &UserHandlers{Svc: services.Users, Logger: logger}, services.Authorizer)
	}

	return Chain(mux, RequestID(), Logging(logger), Recover(logger), Metrics(services.Metrics))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, authz Authorizer) {
	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/request-reset", h.RequestReset)
	mux.HandleFunc("POST /api/auth/reset-password/request", h.RequestReset)
	mux.HandleFunc("POST /api/auth/reset-password/confirm", h.ConfirmReset)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	if authz != nil {
		mux.Handle("GET /api/auth/me", RequireAuth(authz)(http.HandlerFunc(h.Me)))
	}
}

func registerWellnessRoutes(mux *http.ServeMux, h *WellnessHandlers, authz Authorizer) {
	mux.Handle("GET /api/wellness",
		RequirePermission(authz, domainauth.PermWellnessRead)(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/wellness",
		RequirePermission(authz, domainauth.PermWellnessCreate)(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/wellness/aggregate",
		RequirePermission(authz, domainauth.PermAdminAccess)(http.HandlerFunc(h.Aggregate)))
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, authz Authorizer) {
	mux.Handle("GET /api/users",
		RequirePermission(authz, domainauth.PermUsersRead)(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/users/{id}",
		RequirePermission(authz, domainauth.PermUsersRead)(http.HandlerFunc(h.GetByID)))
	mux.Handle("PATCH /api/users/{id}/role",
		RequirePermission(authz, domainauth.PermUsersUpdate)(http.HandlerFunc(h.UpdateRole)))
}
