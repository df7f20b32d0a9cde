package http

import (
	"errors"
	"net/http"

	"github.com/spendtrack/auth/internal/auth/service"
	"github.com/spendtrack/auth/internal/auth/store"
	"github.com/spendtrack/auth/pkg/httpx"
	"github.com/spendtrack/auth/pkg/slogx"
)

// writeServiceError maps service-layer failures onto the wire. Credential and
// token failures are all 401s with distinct error codes; a dead session store
// is the caller's cue to retry, not to re-authenticate.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_credentials", "Email or password is incorrect.")
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteError(w, http.StatusUnauthorized,
			"token_expired", "Token has expired. Please log in again.")
	case errors.Is(err, service.ErrTokenInvalid):
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_token", "Token is malformed or has an invalid signature.")
	case errors.Is(err, service.ErrSessionRevoked):
		httpx.WriteError(w, http.StatusUnauthorized,
			"session_revoked", "Session has been terminated. Please log in again.")
	case errors.Is(err, store.ErrUnavailable):
		log.Error("session store unavailable", "err", err)
		w.Header().Set("Retry-After", "1")
		httpx.WriteError(w, http.StatusServiceUnavailable,
			"store_unavailable", "Temporary backend failure. Please retry.")
	default:
		log.Error("auth request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "")
	}
}
