package http

import (
	"net/http"

	"github.com/spendtrack/auth/internal/auth/domain"
	"github.com/spendtrack/auth/internal/auth/service"
	"github.com/spendtrack/auth/pkg/httpx"
	"github.com/spendtrack/auth/pkg/jwtx"
)

// refreshCookieName is the cookie the refresh token is mirrored into so
// browser clients don't have to hold it in script-reachable storage.
const refreshCookieName = "refresh_token"

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	Credentials *service.CredentialService
	Tokens      *service.TokenService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required.")
		return
	}

	ctx := r.Context()

	user, err := h.Credentials.Validate(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.Tokens.Login(ctx, user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeTokenPair(w, pair)
}

func writeTokenPair(w http.ResponseWriter, pair *domain.TokenPair) {
	// Cookie lifetime mirrors the refresh-token TTL; a slightly stale
	// cookie is harmless since the token inside carries its own expiry.
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/v1/auth",
		MaxAge:   int(jwtx.DefaultRefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}
