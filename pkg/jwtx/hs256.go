package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints signed session tokens.
type Signer interface {
	Sign(claims Claims) (string, error)
}

// Verifier parses and validates session tokens.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

var ErrInvalidToken = errors.New("jwtx: invalid token")

// HS256 signs and verifies tokens with a shared secret. A single-instance
// deployment has no key distribution problem, so symmetric signing keeps the
// footprint small.
type HS256 struct {
	Secret []byte
	Issuer string
}

func NewHS256(secret, issuer string) (*HS256, error) {
	if secret == "" {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}
	return &HS256{Secret: []byte(secret), Issuer: issuer}, nil
}

func (h *HS256) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to sign token: %w", err)
	}
	return signed, nil
}

func (h *HS256) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.Secret, nil
	}, jwt.WithIssuer(h.Issuer))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
