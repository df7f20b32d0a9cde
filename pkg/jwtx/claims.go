package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the login/refresh flow.
// These provide sensible security defaults but can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the token claims used across the service. Access and refresh
// tokens share the same shape; TokenID is populated only on refresh tokens
// and is the rotation unit mirrored in the session store.
type Claims struct {
	jwt.RegisteredClaims

	// TokenID is the random identifier of a refresh token. The session
	// store holds only this identifier, never the signed token itself.
	TokenID string `json:"token_id,omitempty"`
}

// NewAccessClaims builds minimally-correct access-token claims.
func NewAccessClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// NewRefreshClaims builds refresh-token claims carrying the given tokenID.
func NewRefreshClaims(subject, issuer, tokenID string, ttl time.Duration, now time.Time) Claims {
	c := NewAccessClaims(subject, issuer, ttl, now)
	c.TokenID = tokenID
	return c
}

// IsRefresh reports whether the claims describe a refresh token.
func (c *Claims) IsRefresh() bool { return c.TokenID != "" }
