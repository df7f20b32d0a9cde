package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/spendtrack/auth/internal/auth/domain"
	"github.com/spendtrack/auth/internal/auth/service"
	"github.com/spendtrack/auth/internal/auth/store"
	redisstore "github.com/spendtrack/auth/internal/auth/store/drivers/redis"
	"github.com/spendtrack/auth/pkg/jwtx"
)

func newTokenService(t *testing.T) (*service.TokenService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	sessions := redisstore.NewStore(client,
		redisstore.WithTTL(jwtx.DefaultRefreshTokenTTL),
		redisstore.WithOpTimeout(500*time.Millisecond),
	)
	t.Cleanup(func() { _ = sessions.Close() })

	codec, err := jwtx.NewHS256([]byte("unit-test-secret"), "auth-test")
	require.NoError(t, err)

	return &service.TokenService{
		Codec:      codec,
		Sessions:   sessions,
		Issuer:     "auth-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, mr
}

func login(t *testing.T, svc *service.TokenService, userID string) *domain.TokenPair {
	t.Helper()
	pair, err := svc.Login(context.Background(), domain.User{ID: userID})
	require.NoError(t, err)
	return pair
}

func TestLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newTokenService(t)
	ctx := context.Background()

	pair := login(t, svc, "u1")
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, time.Minute, pair.ExpiresIn)

	t.Run("refresh token id is recorded in the store", func(t *testing.T) {
		claims, err := svc.Codec.Verify(pair.RefreshToken)
		require.NoError(t, err)
		require.True(t, claims.IsRefresh())
		require.NoError(t, svc.Sessions.Validate(ctx, "u1", claims.TokenID))
	})

	t.Run("access token carries no token id", func(t *testing.T) {
		claims, err := svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.Subject)
		require.Empty(t, claims.TokenID)
	})
}

func TestLoginFailsWhenStoreDown(t *testing.T) {
	t.Parallel()
	svc, mr := newTokenService(t)
	mr.Close()

	_, err := svc.Login(context.Background(), domain.User{ID: "u1"})
	require.ErrorIs(t, err, store.ErrUnavailable)
}

func TestRefreshRotation(t *testing.T) {
	t.Parallel()
	svc, _ := newTokenService(t)
	ctx := context.Background()

	first := login(t, svc, "u1")

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	oldClaims, err := svc.Codec.Verify(first.RefreshToken)
	require.NoError(t, err)
	newClaims, err := svc.Codec.Verify(second.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, oldClaims.TokenID, newClaims.TokenID)

	t.Run("old id no longer validates, new one does", func(t *testing.T) {
		require.ErrorIs(t, svc.Sessions.Validate(ctx, "u1", oldClaims.TokenID), store.ErrSessionMismatch)
		require.NoError(t, svc.Sessions.Validate(ctx, "u1", newClaims.TokenID))
	})

	t.Run("replaying the rotated-away token revokes the session", func(t *testing.T) {
		_, err := svc.Refresh(ctx, first.RefreshToken)
		require.ErrorIs(t, err, service.ErrSessionRevoked)

		// Reuse detection leaves no active session at all: even the
		// legitimate newest token is dead.
		_, err = svc.Refresh(ctx, second.RefreshToken)
		require.ErrorIs(t, err, service.ErrSessionRevoked)
	})
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	t.Parallel()
	svc, _ := newTokenService(t)
	ctx := context.Background()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, service.ErrTokenInvalid)
	})

	t.Run("access token presented as refresh token", func(t *testing.T) {
		pair := login(t, svc, "u1")
		_, err := svc.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, service.ErrTokenInvalid)
	})

	t.Run("expired refresh token, no store interaction", func(t *testing.T) {
		expired, err := svc.Codec.Sign(
			jwtx.NewRefreshClaims("u2", "auth-test", "tid", time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, expired)
		require.ErrorIs(t, err, service.ErrTokenExpired)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte("other-secret"), "auth-test")
		require.NoError(t, err)
		forged, err := other.Sign(
			jwtx.NewRefreshClaims("u1", "auth-test", "tid", time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, forged)
		require.ErrorIs(t, err, service.ErrTokenInvalid)
	})
}

func TestRefreshWhenStoreDown(t *testing.T) {
	t.Parallel()
	svc, mr := newTokenService(t)
	pair := login(t, svc, "u1")
	mr.Close()

	_, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, store.ErrUnavailable)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	svc, _ := newTokenService(t)
	ctx := context.Background()

	pair := login(t, svc, "u1")
	require.NoError(t, svc.Logout(ctx, "u1"))

	t.Run("refresh after logout is revoked", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrSessionRevoked)
	})

	t.Run("logout without a session still succeeds", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, "u1"))
		require.NoError(t, svc.Logout(ctx, "never-logged-in"))
	})
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	t.Parallel()
	svc, _ := newTokenService(t)
	ctx := context.Background()

	pair := login(t, svc, "u1")

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = svc.Refresh(ctx, pair.RefreshToken)
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, service.ErrSessionRevoked)
		}
	}
	// The check-and-set rotation guarantees at most one winner; the losers
	// all tripped reuse detection and killed the session.
	require.LessOrEqual(t, winners, 1)
}

func TestVerifyAccess(t *testing.T) {
	t.Parallel()
	svc, _ := newTokenService(t)

	pair := login(t, svc, "u1")

	t.Run("valid", func(t *testing.T) {
		claims, err := svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.Subject)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		_, err := svc.VerifyAccess(pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Codec.Sign(
			jwtx.NewAccessClaims("u1", "auth-test", time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)
		_, err = svc.VerifyAccess(token)
		require.ErrorIs(t, err, service.ErrTokenExpired)
	})
}
