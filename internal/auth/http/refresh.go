package http

import (
	"errors"
	"net/http"

	"github.com/spendtrack/auth/internal/auth/service"
	"github.com/spendtrack/auth/pkg/httpx"
)

// RefreshHandler serves POST /v1/auth/refresh. The refresh token is accepted
// from the JSON body or, failing that, from the refresh_token cookie.
type RefreshHandler struct {
	Tokens *service.TokenService
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// A missing or malformed body is fine as long as the cookie carries
	// the token; the empty-token check below rejects the rest.
	var req refreshRequest
	_ = httpx.DecodeJSON(r, &req)

	token := req.RefreshToken
	if token == "" {
		if c, err := r.Cookie(refreshCookieName); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required.")
		return
	}

	pair, err := h.Tokens.Refresh(r.Context(), token)
	if err != nil {
		// A revoked session's cookie is useless; drop it so the client
		// stops replaying it.
		if errors.Is(err, service.ErrSessionRevoked) {
			clearRefreshCookie(w)
		}
		writeServiceError(w, r, err)
		return
	}

	writeTokenPair(w, pair)
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
