package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spendtrack/auth/internal/auth/directory"
	"github.com/spendtrack/auth/internal/auth/service"
)

func TestCredentialValidate(t *testing.T) {
	t.Parallel()

	dir := directory.NewInMemory()
	seeded, err := dir.Seed("Alice Example", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	svc := &service.CredentialService{Users: dir}
	ctx := context.Background()

	t.Run("valid credentials return the user without password material", func(t *testing.T) {
		user, err := svc.Validate(ctx, "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, seeded.ID, user.ID)
		require.Empty(t, user.PasswordHash)
	})

	t.Run("email comparison is case-insensitive", func(t *testing.T) {
		user, err := svc.Validate(ctx, "Alice@Example.COM", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, seeded.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Validate(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email fails identically to wrong password", func(t *testing.T) {
		_, err := svc.Validate(ctx, "nobody@example.com", "s3cret-pass")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("empty inputs", func(t *testing.T) {
		_, err := svc.Validate(ctx, "", "")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}
