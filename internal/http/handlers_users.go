package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/http/validation"
	"github.com/target/blogger-api/internal/service"
)

const (
	defaultUserListLimit = 20
	maxUserListLimit     = 100
)

// UserHandlers serves account administration.
type UserHandlers struct {
	Svc    *service.UserService
	Logger *slog.Logger
}

type userListResponse struct {
	Users      []*domainauth.User `json:"users"`
	Pagination Pagination         `json:"pagination"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// List handles GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	page, limit := ParsePageLimit(r, defaultUserListLimit, maxUserListLimit)
	res, err := h.Svc.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	users := res.Items
	if users == nil {
		users = []*domainauth.User{}
	}
	WriteJSON(w, http.StatusOK, userListResponse{Users: users, Pagination: NewPagination(page, limit, res.Total)})
}

// GetByID handles GET /api/users/{id}.
func (h *UserHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")})
		return
	}
	user, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// UpdateRole handles PATCH /api/users/{id}/role.
func (h *UserHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: errors.New(authenticationNeeded)})
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")})
		return
	}

	var req updateRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	fv := validation.New().Validate("role", req.Role,
		validation.OneOf("role", []string{
			string(domainauth.RoleAdmin),
			string(domainauth.RoleEditor),
			string(domainauth.RoleReader),
		}))
	if !fv.Valid() {
		writeValidation(w, fv.First(), fv.Messages())
		return
	}

	user, err := h.Svc.UpdateRole(r.Context(), service.UpdateRoleInput{Actor: *claims, UserID: id, Role: req.Role})
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
