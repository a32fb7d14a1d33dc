package jwtx_test

import (
	"testing"
	"time"

	"github.com/abhi19833/milesto/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256("test-secret", "milesto")
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims("user-1", "alice@example.com", "milesto", jwtx.DefaultSessionTTL, time.Now())
	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	parsed, err := signer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", parsed.Subject)
	require.Equal(t, "alice@example.com", parsed.Email)
	require.NoError(t, parsed.ValidateExpiry())
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	a, err := jwtx.NewHS256("secret-a", "milesto")
	require.NoError(t, err)
	b, err := jwtx.NewHS256("secret-b", "milesto")
	require.NoError(t, err)

	raw, err := a.Sign(jwtx.NewSessionClaims("user-1", "", "milesto", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	a, err := jwtx.NewHS256("secret", "other-service")
	require.NoError(t, err)
	b, err := jwtx.NewHS256("secret", "milesto")
	require.NoError(t, err)

	raw, err := a.Sign(jwtx.NewSessionClaims("user-1", "", "other-service", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256("secret", "milesto")
	require.NoError(t, err)

	raw, err := signer.Sign(jwtx.NewSessionClaims("user-1", "", "milesto", time.Hour, time.Now().Add(-2*time.Hour)))
	require.NoError(t, err)

	_, err = signer.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestNewHS256RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewHS256("", "milesto")
	require.Error(t, err)
}
