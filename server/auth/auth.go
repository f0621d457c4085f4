// Package auth issues and verifies the JWT token pair. Token verification
// is what the gateway and the REST middleware call into; the chat core
// never sees raw tokens, only the decoded user identity.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/usehealthifier/healthifier/internal/profile"
	"github.com/usehealthifier/healthifier/store"
)

const (
	issuer = "healthifier"

	// AccessTokenAudienceName is the audience name of the access token.
	AccessTokenAudienceName = "user.access-token"
	// RefreshTokenAudienceName is the audience name of the refresh token.
	RefreshTokenAudienceName = "user.refresh-token"
)

// ClaimsMessage is the claims payload carried by both token kinds.
// Subject holds the user UID.
type ClaimsMessage struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Signer issues and verifies the access/refresh token pair.
type Signer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewSigner creates a signer from the server profile.
func NewSigner(p *profile.Profile) *Signer {
	return &Signer{
		accessSecret:  []byte(p.JWTAccessSecret),
		refreshSecret: []byte(p.JWTRefreshSecret),
		accessExpiry:  p.JWTAccessExpiry,
		refreshExpiry: p.JWTRefreshExpiry,
	}
}

// GenerateAccessToken generates an access token for the user.
func (s *Signer) GenerateAccessToken(user *store.User) (string, error) {
	return s.generate(user, AccessTokenAudienceName, s.accessExpiry, s.accessSecret)
}

// GenerateRefreshToken generates a refresh token for the user.
func (s *Signer) GenerateRefreshToken(user *store.User) (string, error) {
	return s.generate(user, RefreshTokenAudienceName, s.refreshExpiry, s.refreshSecret)
}

func (s *Signer) generate(user *store.User, audience string, expiry time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &ClaimsMessage{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique ID per token so rotation always mints a distinct
			// refresh token, even within the same second.
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   user.UID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// VerifyAccessToken verifies an access token and returns its claims.
func (s *Signer) VerifyAccessToken(tokenString string) (*ClaimsMessage, error) {
	return s.verify(tokenString, AccessTokenAudienceName, s.accessSecret)
}

// VerifyRefreshToken verifies a refresh token and returns its claims.
func (s *Signer) VerifyRefreshToken(tokenString string) (*ClaimsMessage, error) {
	return s.verify(tokenString, RefreshTokenAudienceName, s.refreshSecret)
}

func (s *Signer) verify(tokenString, audience string, secret []byte) (*ClaimsMessage, error) {
	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
