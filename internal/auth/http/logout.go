package http

import (
	"net/http"

	"github.com/spendtrack/auth/internal/auth/service"
	"github.com/spendtrack/auth/pkg/httpx"
)

// LogoutHandler serves POST /v1/auth/logout. AuthnMiddleware has already
// established the caller's identity; from there logout cannot fail short of
// the store being down.
type LogoutHandler struct {
	Tokens *service.TokenService
}

type logoutResponse struct {
	Status string `json:"status"`
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "")
		return
	}

	if err := h.Tokens.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	clearRefreshCookie(w)
	httpx.WriteJSON(w, http.StatusOK, logoutResponse{Status: "logged_out"})
}
