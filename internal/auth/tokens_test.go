package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "saral", 15*time.Minute)

	signed, err := issuer.Issue(42, "admin@example.com", true)
	require.NoError(t, err)

	userID, claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsSuperuser)
	assert.Equal(t, "saral", claims.Issuer)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", "saral", 15*time.Minute)

	issued := time.Now()
	issuer.now = func() time.Time { return issued }
	signed, err := issuer.Issue(42, "admin@example.com", false)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, _, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenIssuer("secret", "saral", 15*time.Minute)
	other := NewTokenIssuer("another-secret", "saral", 15*time.Minute)

	signed, err := other.Issue(42, "admin@example.com", false)
	require.NoError(t, err)

	_, _, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsWrongIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", "saral", 15*time.Minute)
	other := NewTokenIssuer("secret", "someone-else", 15*time.Minute)

	signed, err := other.Issue(42, "admin@example.com", false)
	require.NoError(t, err)

	_, _, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("secret", "saral", 15*time.Minute)

	_, _, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
