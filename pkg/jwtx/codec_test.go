package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *HS256Codec {
	t.Helper()
	c, err := NewHS256([]byte("test-secret-please-rotate"), "auth-test")
	require.NoError(t, err)
	return c
}

func TestNewHS256(t *testing.T) {
	t.Parallel()

	t.Run("rejects an empty secret", func(t *testing.T) {
		_, err := NewHS256(nil, "auth-test")
		require.ErrorIs(t, err, ErrNoSecret)
	})
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)
	now := time.Now()

	t.Run("access token round trip", func(t *testing.T) {
		token, err := codec.Sign(NewAccessClaims("user-42", "auth-test", time.Minute, now))
		require.NoError(t, err)

		claims, err := codec.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "user-42", claims.Subject)
		require.Empty(t, claims.TokenID)
		require.False(t, claims.IsRefresh())
	})

	t.Run("refresh token carries token id", func(t *testing.T) {
		token, err := codec.Sign(NewRefreshClaims("user-42", "auth-test", "tid-1", time.Hour, now))
		require.NoError(t, err)

		claims, err := codec.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "tid-1", claims.TokenID)
		require.True(t, claims.IsRefresh())
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := codec.Sign(NewAccessClaims("user-42", "auth-test", time.Minute, now.Add(-time.Hour)))
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewHS256([]byte("a-different-secret"), "auth-test")
		require.NoError(t, err)

		token, err := other.Sign(NewAccessClaims("user-42", "auth-test", time.Minute, now))
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewHS256([]byte("test-secret-please-rotate"), "someone-else")
		require.NoError(t, err)

		token, err := other.Sign(NewAccessClaims("user-42", "someone-else", time.Minute, now))
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := codec.Sign(NewAccessClaims("user-42", "auth-test", time.Minute, now))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		parts[1] = "eyJzdWIiOiJzb21lb25lLWVsc2UifQ"
		_, err = codec.Verify(strings.Join(parts, "."))
		require.Error(t, err)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := codec.Verify("not.a.jwt")
		require.ErrorIs(t, err, ErrMalformed)
	})
}
