package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/observability/statsd"
)

func TestEmitRequest(t *testing.T) {
	var rec statsd.Recorder
	EmitRequest(&rec, RequestMetric{Method: "POST", Route: "POST /api/auth/login", Status: 401, Duration: 3 * time.Millisecond})
	EmitRequest(&rec, RequestMetric{Method: "GET", Status: 404})

	counts := rec.Named(HTTPRequest)
	require.Len(t, counts, 2)
	assert.Equal(t, map[string]string{"method": "POST", "route": "POST /api/auth/login", "status_class": "4xx"}, counts[0].Tags)
	assert.Equal(t, "unmatched", counts[1].Tags["route"])

	timings := rec.Named(HTTPRequestDuration)
	require.Len(t, timings, 1, "zero durations are not timed")
	assert.InDelta(t, 3.0, timings[0].Value, 0.001)
}

func TestEmitAuth(t *testing.T) {
	var rec statsd.Recorder
	EmitAuth(&rec, AuthMetric{Operation: "login"})
	EmitAuth(&rec, AuthMetric{Operation: "login", Rejected: true, Err: apperrors.Unauthorized("nope")})
	EmitAuth(&rec, AuthMetric{Operation: "signup", Err: errors.New("db down")})

	got := rec.Named(AuthOutcome)
	require.Len(t, got, 3)
	assert.Equal(t, map[string]string{"operation": "login", "result": ResultSuccess}, got[0].Tags)
	assert.Equal(t, ResultRejected, got[1].Tags["result"])
	assert.Equal(t, "unauthorized", got[1].Tags["error_class"])
	assert.Equal(t, ResultError, got[2].Tags["result"])
	assert.Equal(t, "errors_errorstring", got[2].Tags["error_class"])
}

func TestEmit_NilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitRequest(nil, RequestMetric{})
		EmitAuth(nil, AuthMetric{})
	})
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(201))
	assert.Equal(t, "5xx", statusClass(504))
	assert.Equal(t, "unknown", statusClass(0))
}
