package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of a login session token. The web client
// keeps the token in local storage, so it matches the original product's
// seven day sessions.
const DefaultSessionTTL = 7 * 24 * time.Hour

var ErrTokenExpired = errors.New("jwtx: token expired")

// Claims are the session-token claims. Subject carries the user id; Email is
// included so endpoints that only need an identity hint can avoid a user
// lookup.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

// NewSessionClaims builds claims for a freshly authenticated user.
func NewSessionClaims(userID, email, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
}

// ValidateExpiry checks the exp claim against the current time.
func (c Claims) ValidateExpiry() error {
	if c.ExpiresAt == nil || time.Now().After(c.ExpiresAt.Time) {
		return ErrTokenExpired
	}
	return nil
}
