package httpx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthz(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		f := newAPIFixture(t, stubPinger{}, nil)
		rec := f.do(t, http.MethodGet, "/healthz", nil, requestOpts{})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})

	t.Run("dependency down", func(t *testing.T) {
		f := newAPIFixture(t, stubPinger{}, stubPinger{err: errors.New("connection refused")})
		rec := f.do(t, http.MethodGet, "/healthz", nil, requestOpts{})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
	})

	t.Run("head has no body", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.do(t, http.MethodHead, "/healthz", nil, requestOpts{})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.do(t, http.MethodGet, "/nope", nil, requestOpts{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
