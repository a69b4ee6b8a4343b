package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify_RoundTrip(t *testing.T) {
	s, err := NewSigner("secret", time.Hour)
	require.NoError(t, err)

	raw, err := s.Sign("safari")
	require.NoError(t, err)

	p, err := s.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "safari", p)
}

func TestVerify_RejectsOtherSecret(t *testing.T) {
	a, _ := NewSigner("secret-a", time.Hour)
	b, _ := NewSigner("secret-b", time.Hour)

	raw, err := a.Sign("brielle")
	require.NoError(t, err)

	_, err = b.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsExpired(t *testing.T) {
	s, _ := NewSigner("secret", time.Hour)
	base := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	raw, err := s.Sign("safari")
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = s.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsGarbageAndNone(t *testing.T) {
	s, _ := NewSigner("secret", time.Hour)

	_, err := s.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Player: "safari"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSigner_Validates(t *testing.T) {
	_, err := NewSigner("", time.Hour)
	assert.Error(t, err)
	_, err = NewSigner("x", 0)
	assert.Error(t, err)
}
