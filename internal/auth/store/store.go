package store

import (
	"context"
	"errors"
)

var (
	// ErrSessionMismatch is the reuse/tamper signal: the presented token id
	// does not equal the stored one, or no record exists at all. It is
	// deliberately an error rather than a boolean so callers are forced to
	// treat mismatch as a distinct revocation path. It must never leak past
	// the refresh flow; the service layer translates it there.
	ErrSessionMismatch = errors.New("store: session token mismatch")

	// ErrUnavailable wraps any backend failure (connectivity, timeout).
	// Surfaced to clients as a retryable server error, never as a 401.
	ErrUnavailable = errors.New("store: session backend unavailable")
)

// SessionStore holds, per user, the identifier of the single currently-valid
// refresh token. Concrete drivers (redis) implement this. The stored value is
// only ever the random token id - the signed token itself never touches the
// store.
//
// Validate followed by Insert is not atomic as a pair: two concurrent
// rotations can both see the old id as valid and the second Insert silently
// clobbers the first rotation's new id. Rotate is the required check-and-set
// extension of the backend contract that closes that race; the refresh flow
// must use it instead of the Validate+Insert sequence.
type SessionStore interface {
	// Insert unconditionally sets the stored token id for userID,
	// overwriting any prior value. Last-writer-wins.
	Insert(ctx context.Context, userID, tokenID string) error

	// Validate succeeds only when the stored id for userID exactly equals
	// tokenID. A missing record or differing value fails with
	// ErrSessionMismatch.
	Validate(ctx context.Context, userID, tokenID string) error

	// Rotate atomically replaces the stored id with newTokenID, but only if
	// it currently equals oldTokenID; otherwise ErrSessionMismatch and the
	// stored value is left untouched. Exactly one of N concurrent rotations
	// presenting the same old id wins.
	Rotate(ctx context.Context, userID, oldTokenID, newTokenID string) error

	// Invalidate deletes the stored record for userID. Idempotent; deleting
	// an absent record is not an error.
	Invalidate(ctx context.Context, userID string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying client. The application owns the store
	// lifecycle: created at startup, closed during graceful shutdown.
	Close() error
}
