package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/target/blogger-api/internal/domain/model"
	"github.com/target/blogger-api/internal/service"
)

const (
	defaultWellnessLimit = 10
	maxWellnessLimit     = 100
)

// WellnessHandlers serves the caller's private check-ins and the admin aggregate.
type WellnessHandlers struct {
	Svc    *service.WellnessService
	Logger *slog.Logger
}

type wellnessListResponse struct {
	Wellness   []*model.WellnessCheckin `json:"wellness"`
	Pagination Pagination               `json:"pagination"`
}

type wellnessCreateResponse struct {
	Checkin *model.WellnessCheckin `json:"checkin"`
}

// List handles GET /api/wellness. Only the caller's own records are returned.
func (h *WellnessHandlers) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: errors.New(authenticationNeeded)})
		return
	}

	page, limit := ParsePageLimit(r, defaultWellnessLimit, maxWellnessLimit)
	res, err := h.Svc.ListOwn(r.Context(), model.WellnessListOptions{
		UserID: claims.ID,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	items := res.Items
	if items == nil {
		items = []*model.WellnessCheckin{}
	}
	WriteJSON(w, http.StatusOK, wellnessListResponse{
		Wellness:   items,
		Pagination: NewPagination(page, limit, res.Total),
	})
}

// Create handles POST /api/wellness.
func (h *WellnessHandlers) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: errors.New(authenticationNeeded)})
		return
	}

	var req model.CreateWellnessRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.UserID = claims.ID

	checkin, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, wellnessCreateResponse{Checkin: checkin})
}

// Aggregate handles GET /api/wellness/aggregate.
func (h *WellnessHandlers) Aggregate(w http.ResponseWriter, r *http.Request) {
	agg, err := h.Svc.Aggregate(r.Context())
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, agg)
}
