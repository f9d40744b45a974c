// Package metrics defines the request and auth metrics emitted by the API.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/target/blogger-api/internal/observability/errors"
	"github.com/target/blogger-api/internal/observability/statsd"
)

// Result values for the auth outcome tag.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metric names.
const (
	HTTPRequest         = "http.request"
	HTTPRequestDuration = "http.request.duration"
	AuthOutcome         = "auth.outcome"
)

// RequestMetric describes one served HTTP request.
type RequestMetric struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
}

// EmitRequest records a request counter and its latency.
func EmitRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}
	route := in.Route
	if route == "" {
		route = "unmatched"
	}
	tags := map[string]string{
		"method":       in.Method,
		"route":        route,
		"status_class": statusClass(in.Status),
	}
	sink.Count(HTTPRequest, 1, tags)
	if in.Duration > 0 {
		sink.Timing(HTTPRequestDuration, in.Duration, CloneTags(tags))
	}
}

// AuthMetric describes the outcome of one auth operation such as login or signup.
type AuthMetric struct {
	Operation string
	// Rejected marks a client-caused failure (bad credentials, weak password).
	Rejected bool
	Err      error
}

// EmitAuth records an auth outcome tagged with the error class on failure.
func EmitAuth(sink statsd.Sink, in AuthMetric) {
	if sink == nil {
		return
	}
	result := ResultSuccess
	switch {
	case in.Err != nil && in.Rejected:
		result = ResultRejected
	case in.Err != nil:
		result = ResultError
	}
	tags := map[string]string{
		"operation": in.Operation,
		"result":    result,
	}
	if class := obserrors.Classify(in.Err); class != "" {
		tags["error_class"] = class
	}
	sink.Count(AuthOutcome, 1, tags)
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
