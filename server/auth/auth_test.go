package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usehealthifier/healthifier/internal/profile"
	"github.com/usehealthifier/healthifier/store"
)

func newTestSigner() *Signer {
	return NewSigner(&profile.Profile{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 30 * 24 * time.Hour,
	})
}

func testUser() *store.User {
	return &store.User{
		UID:   "uid-123",
		Name:  "Ada",
		Email: "ada@example.com",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	signer := newTestSigner()

	token, err := signer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	claims, err := signer.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	signer := newTestSigner()

	token, err := signer.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := signer.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.Subject)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	signer := newTestSigner()

	accessToken, err := signer.GenerateAccessToken(testUser())
	require.NoError(t, err)
	refreshToken, err := signer.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	_, err = signer.VerifyRefreshToken(accessToken)
	assert.Error(t, err)
	_, err = signer.VerifyAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	signer := newTestSigner()
	other := NewSigner(&profile.Profile{
		JWTAccessSecret:  "different-secret",
		JWTRefreshSecret: "different-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	})

	token, err := other.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = signer.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	signer := NewSigner(&profile.Profile{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessExpiry:  -time.Minute,
		JWTRefreshExpiry: time.Hour,
	})

	token, err := signer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = signer.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer := newTestSigner()
	_, err := signer.VerifyAccessToken("not-a-token")
	assert.Error(t, err)
}
