package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrNoSecret   = errors.New("jwtx: empty signing secret")
)

// Signer is our interface for anything that can sign token claims.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256Codec signs and verifies tokens with a single process-wide HMAC
// secret. It implements both Signer and Verifier.
type HS256Codec struct {
	secret []byte
	issuer string
}

// NewHS256 creates a codec from the shared secret. The issuer, when
// non-empty, is stamped into signed tokens and enforced on verification.
func NewHS256(secret []byte, issuer string) (*HS256Codec, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return &HS256Codec{secret: secret, issuer: issuer}, nil
}

// Sign takes your claims and turns them into a signed JWT string.
func (c *HS256Codec) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token, mapping library failures onto the
// package sentinel errors so callers can switch on them with errors.Is.
func (c *HS256Codec) Verify(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return Claims{}, ErrIssuer
		default:
			return Claims{}, ErrMalformed
		}
	}
	if !parsed.Valid {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}
