package http

import (
	"net/http"
	"time"

	"github.com/spendtrack/auth/internal/auth/store"
	"github.com/spendtrack/auth/pkg/httpx"
)

// ReadyzHandler is the readiness probe: it pings the session store, the one
// dependency without which login and refresh cannot work.
func ReadyzHandler(startTime time.Time, version string, sessions store.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{SessionStore: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := sessions.Ping(r.Context()); err != nil {
			checks.SessionStore = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
