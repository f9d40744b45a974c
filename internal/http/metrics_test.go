package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/blogger-api/internal/observability/metrics"
	"github.com/target/blogger-api/internal/observability/statsd"
)

func TestRouter_EmitsRequestMetrics(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", nil, requestOpts{})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodGet, "/nope", nil, requestOpts{})
	require.Equal(t, http.StatusNotFound, rec.Code)

	got := f.metrics.Named(metrics.HTTPRequest)
	require.Len(t, got, 2)
	assert.Equal(t, map[string]string{"method": "GET", "route": "GET /healthz", "status_class": "2xx"}, got[0].Tags)
	assert.Equal(t, "unmatched", got[1].Tags["route"])
	assert.Equal(t, "4xx", got[1].Tags["status_class"])
}

func TestAuthHandlers_EmitOutcomes(t *testing.T) {
	f := newAPIFixture(t)
	f.signup(t, "metrics@example.com")

	rec := f.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "metrics@example.com", "password": "Wr0ng!pass"}, requestOpts{})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	got := f.metrics.Named(metrics.AuthOutcome)
	require.Len(t, got, 2)
	assert.Equal(t, map[string]string{"operation": "signup", "result": metrics.ResultSuccess}, got[0].Tags)
	assert.Equal(t, "login", got[1].Tags["operation"])
	assert.Equal(t, metrics.ResultRejected, got[1].Tags["result"])
	assert.Equal(t, "unauthorized", got[1].Tags["error_class"])
}

func TestMetrics_NilSinkPassesThrough(t *testing.T) {
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	wrapped := Metrics(nil)(h)
	assert.NotNil(t, wrapped)
}

func TestMetrics_CountsPanicsAsServerErrors(t *testing.T) {
	rec := &statsd.Recorder{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /explode", func(http.ResponseWriter, *http.Request) { panic("boom") })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Chain(mux, RequestID(), Logging(logger), Recover(logger), Metrics(rec))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/explode", nil))
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	got := rec.Named(metrics.HTTPRequest)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]string{"method": "GET", "route": "GET /explode", "status_class": "5xx"}, got[0].Tags)
	assert.Len(t, rec.Named(metrics.HTTPRequestDuration), 1)
}
