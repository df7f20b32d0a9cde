package service

import (
	"context"
	"errors"

	"github.com/spendtrack/auth/internal/auth/domain"
)

// ErrUserNotFound is returned by UserDirectory implementations for unknown
// identifiers. It never crosses the credential boundary: callers of
// CredentialService only ever see ErrInvalidCredentials.
var ErrUserNotFound = errors.New("service: user not found")

// UserDirectory is the seam to the external users service. The auth core
// only ever reads through it; account CRUD lives elsewhere.
type UserDirectory interface {
	// FindByEmail returns the user record (including its password hash)
	// for the given email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (domain.User, error)

	// FindByID returns the user record for the given id, or ErrUserNotFound.
	// Used by downstream authenticated routes for identity propagation.
	FindByID(ctx context.Context, id string) (domain.User, error)
}
