package httpx

import (
	"context"
	"io"
	"net/http"
	"time"
)

const (
	healthResponse    = `{"status":"ok"}`
	unhealthyResponse = `{"status":"unavailable"}`
	healthCheckBudget = 2 * time.Second
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// healthHandler returns 200 when every pinger answers, 503 otherwise.
func healthHandler(pingers ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, healthResponse
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckBudget)
		defer cancel()
		for _, p := range pingers {
			if p == nil {
				continue
			}
			if err := p.PingContext(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, unhealthyResponse
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := io.WriteString(w, body); err != nil {
			// Nothing more to do if the client connection is gone.
			return
		}
	}
}
