package domain

import "time"

// TokenPair represents what the login and refresh endpoints return: the
// short-lived access token and the longer-lived refresh token, both JWTs.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // access-token lifetime
}

// RefreshSession is the single record of a user's currently-valid refresh
// token identifier. At most one exists per user; presence means the user has
// an active session, absence means logged out. The session store owns it.
type RefreshSession struct {
	UserID  string
	TokenID string
}
