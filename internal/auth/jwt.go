// Package auth implements the credential service: signed, time-bounded bearer
// tokens binding a request to a user identity, plus password hashing.
//
// Tokens are HS256 JWTs with the user id as subject. Verification failures are
// classified so the HTTP layer can distinguish an expired credential (useful
// for client-side refresh UX) without leaking anything else.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window applied when no TTL is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Token verification failures.
var (
	// ErrTokenExpired indicates a structurally valid token past its validity window.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed indicates a token that cannot be parsed or whose
	// signature does not validate.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenInvalid covers any other verification failure (wrong algorithm,
	// missing subject, not yet valid).
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenIssuer issues and verifies bearer tokens. Safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string

	// now is a test seam for deterministic expiry checks.
	now func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "gesture-path-backend",
		now:    time.Now,
	}
}

// Issue produces a signed token bound to userID, valid for the configured TTL.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a token, returning the bound user id.
//
// Failure classification:
//   - ErrTokenExpired:   past the validity window
//   - ErrTokenMalformed: unparsable token or bad signature
//   - ErrTokenInvalid:   any other verification failure
func (t *TokenIssuer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrTokenInvalid
			}
			return t.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return t.now() }),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrTokenMalformed
	default:
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
