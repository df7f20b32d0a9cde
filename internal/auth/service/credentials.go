package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spendtrack/auth/internal/auth/domain"
	"github.com/spendtrack/auth/pkg/cryptox"
	"github.com/spendtrack/auth/pkg/slogx"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
// The two cases are deliberately indistinguishable so responses do not leak
// which addresses have accounts.
var ErrInvalidCredentials = errors.New("service: invalid credentials")

// CredentialService checks a submitted email/password pair against the
// external user directory.
type CredentialService struct {
	Users UserDirectory
}

// Validate looks the user up by email and compares the password against the
// stored hash. On success the returned record has its password material
// stripped.
func (s *CredentialService) Validate(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a hash comparison anyway so the unknown-account path
			// takes as long as a failed password check.
			cryptox.DummyCompare(password)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.Error("stored password hash is malformed", slog.String("user_id", user.ID))
		}
		return domain.User{}, ErrInvalidCredentials
	}

	return user.Sanitized(), nil
}
