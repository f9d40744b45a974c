package httpx

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageLimit(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{query: "", wantPage: 1, wantLimit: 10},
		{query: "?page=3&limit=25", wantPage: 3, wantLimit: 25},
		{query: "?page=0&limit=0", wantPage: 1, wantLimit: 1},
		{query: "?page=-2&limit=500", wantPage: 1, wantLimit: 100},
		{query: "?page=abc&limit=xyz", wantPage: 1, wantLimit: 10},
		{query: "?page=9223372036854775807&limit=100", wantPage: MaxPage(100), wantLimit: 100},
		{query: "?page=4611686018427387904&limit=5", wantPage: MaxPage(100), wantLimit: 5},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)
			page, limit := ParsePageLimit(r, 10, 100)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			offset := (page - 1) * limit
			assert.GreaterOrEqual(t, offset, 0)
			assert.LessOrEqual(t, offset, math.MaxInt32)
		})
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 10, Total: 0, TotalPages: 0}, NewPagination(1, 10, 0))
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 10, TotalPages: 1}, NewPagination(2, 10, 10))
	assert.Equal(t, Pagination{Page: 1, Limit: 10, Total: 11, TotalPages: 2}, NewPagination(1, 10, 11))
	assert.Equal(t, 0, NewPagination(1, 0, 5).TotalPages)
}
