package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spendtrack/auth/internal/auth/domain"
	"github.com/spendtrack/auth/internal/auth/store"
	"github.com/spendtrack/auth/pkg/jwtx"
	"github.com/spendtrack/auth/pkg/slogx"
)

var (
	// ErrTokenInvalid reports a malformed or wrongly-signed token.
	ErrTokenInvalid = errors.New("service: invalid token")

	// ErrTokenExpired reports a token past its expiry.
	ErrTokenExpired = errors.New("service: token expired")

	// ErrSessionRevoked is the only mismatch signal that leaves this
	// package: the presented refresh token no longer matches the session
	// store, the session has been destroyed, and the user must log in
	// again. A stale client and a stolen token look identical here, which
	// is exactly why both get the same treatment.
	ErrSessionRevoked = errors.New("service: session revoked")
)

// TokenService mints access/refresh token pairs and drives the rotation
// state machine against the session store.
type TokenService struct {
	Codec      *jwtx.HS256Codec
	Sessions   store.SessionStore
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login issues a fresh token pair for an already-authenticated user and
// records the new refresh token id as the user's single active session.
// A store failure fails the whole login: tokens the store did not record
// would only produce spurious mismatches on the next refresh.
func (s *TokenService) Login(ctx context.Context, user domain.User) (*domain.TokenPair, error) {
	pair, tokenID, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Sessions.Insert(ctx, user.ID, tokenID); err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("session created", "user_id", user.ID)
	return pair, nil
}

// Refresh rotates a presented refresh token. The flow per attempt is
// Presented -> Decoded -> Checked -> {Rotated | Revoked}:
//
//  1. Decode: verify signature and expiry. Failure ends the flow with no
//     store interaction.
//  2. Check-and-rotate: atomically swap the embedded token id for a fresh
//     one. A mismatch means the id was already rotated away - either a
//     stale client or a replayed stolen token - so the session is destroyed
//     and the caller is forced to re-authenticate.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !claims.IsRefresh() {
		// An access token presented at the refresh endpoint.
		return nil, ErrTokenInvalid
	}
	userID := claims.Subject

	pair, newTokenID, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}

	switch err := s.Sessions.Rotate(ctx, userID, claims.TokenID, newTokenID); {
	case err == nil:
		return pair, nil
	case errors.Is(err, store.ErrSessionMismatch):
		l.Warn("refresh token reuse detected, revoking session", "user_id", userID)
		if err := s.Sessions.Invalidate(ctx, userID); err != nil {
			// The stale record is still live; surface the store failure
			// rather than pretend the session is gone.
			return nil, err
		}
		return nil, ErrSessionRevoked
	default:
		return nil, err
	}
}

// Logout destroys the user's session unconditionally. No precondition on
// prior state; invalidating an absent session is a no-op.
func (s *TokenService) Logout(ctx context.Context, userID string) error {
	if err := s.Sessions.Invalidate(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("session invalidated", "user_id", userID)
	return nil
}

// VerifyAccess validates an access token and returns its claims. Stateless:
// no store interaction, safe to call from any number of goroutines.
func (s *TokenService) VerifyAccess(token string) (jwtx.Claims, error) {
	claims, err := s.Codec.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return jwtx.Claims{}, ErrTokenExpired
		}
		return jwtx.Claims{}, ErrTokenInvalid
	}
	if claims.IsRefresh() {
		return jwtx.Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// issuePair mints an access/refresh pair for the subject. The refresh token
// embeds a fresh random id; only that id is ever handed to the store.
func (s *TokenService) issuePair(userID string) (*domain.TokenPair, string, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	access, err := s.Codec.Sign(jwtx.NewAccessClaims(userID, s.Issuer, s.AccessTTL, now))
	if err != nil {
		return nil, "", err
	}

	refresh, err := s.Codec.Sign(jwtx.NewRefreshClaims(userID, s.Issuer, tokenID, s.RefreshTTL, now))
	if err != nil {
		return nil, "", err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, tokenID, nil
}
