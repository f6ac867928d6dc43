// Package jwt issues and validates the HS256 bearer tokens used by the
// service. Tokens are stateless: once issued they stay valid until their
// expiration, there is no revocation list.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired means the token was well-formed and correctly signed but
	// its lifetime is over. Kept separate from ErrSignature for logs; both
	// surface to clients as a generic unauthenticated response.
	ErrExpired = errors.New("token expired")
	// ErrSignature means the signature does not match the signing key.
	ErrSignature = errors.New("token signature invalid")
	// ErrMalformed means the token is structurally not a JWT.
	ErrMalformed = errors.New("token malformed")
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 15 * time.Minute

// Generator signs and validates bearer tokens with a symmetric key.
type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// Claims carries the token payload: the user id travels in the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// NewGenerator builds a Generator. The secret must come from configuration;
// an empty value is rejected so the key can never silently default.
func NewGenerator(secret, issuer string, ttl time.Duration) (*Generator, error) {
	if secret == "" {
		return nil, errors.New("jwt: empty signing secret")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue creates a signed token whose claims are the user id and an
// expiration of now plus the configured lifetime.
func (g *Generator) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Validate checks the signature and expiration and returns the user id from
// the claims. Failures are classified into ErrExpired, ErrSignature and
// ErrMalformed.
func (g *Generator) Validate(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignature
		}
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return uuid.Nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return uuid.Nil, ErrSignature
		default:
			return uuid.Nil, ErrMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrMalformed
	}
	if g.issuer != "" && claims.Issuer != g.issuer {
		return uuid.Nil, ErrSignature
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrMalformed
	}
	return userID, nil
}
