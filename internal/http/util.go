package httpx

import (
	"math"
	"net/http"
	"strconv"
)

// Pagination is echoed back to clients alongside a page of results.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParsePageLimit parses page/limit params. page is 1-based; limit is clamped to [1, maxLimit].
// page is capped so (page-1)*limit always fits in a 32-bit offset.
func ParsePageLimit(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}
	page := parseIntQuery(r, "page", 1)
	lim := parseIntQuery(r, "limit", defLimit)
	if page < 1 {
		page = 1
	}
	if maxPage := MaxPage(maxLimit); page > maxPage {
		page = maxPage
	}
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	return page, lim
}

// MaxPage is the largest page ParsePageLimit returns for maxLimit.
func MaxPage(maxLimit int) int {
	if maxLimit < 1 {
		maxLimit = 1
	}
	return math.MaxInt32 / maxLimit
}

// NewPagination fills in TotalPages for total items split into pages of limit.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
