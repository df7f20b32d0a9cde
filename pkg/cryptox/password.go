package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for new hashes. 12 is a
// reasonable middle ground between login latency and brute-force resistance.
const DefaultCost = 12

// ErrMismatch reports that a password does not match its stored hash.
var ErrMismatch = errors.New("cryptox: password mismatch")

// dummyHash is a valid bcrypt hash of an unguessable value. It is compared
// against when no real hash exists so that lookups for unknown accounts take
// the same time as failed password checks.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// HashPassword generates a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// Returns ErrMismatch when the password does not match; any other error
// indicates a malformed hash.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// DummyCompare burns the same CPU as a failed VerifyPassword call. Call it
// on the unknown-account path so response timing does not reveal whether an
// email is registered.
func DummyCompare(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
