package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usehealthifier/healthifier/server/auth"
)

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withClaims attaches verified claims the way the auth middleware does.
func withClaims(c echo.Context, uid string) echo.Context {
	claims := &auth.ClaimsMessage{}
	claims.Subject = uid
	c.Set("user-claims", claims)
	return c
}

func registerTestUser(t *testing.T, s *APIV1Service, email string) {
	t.Helper()
	c, rec := newJSONContext(http.MethodPost, "/api/v1/auth/register",
		`{"name":"Ada","email":"`+email+`","password":"hunter22"}`)
	require.NoError(t, s.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func loginTestUser(t *testing.T, s *APIV1Service, email string) *TokenPairResponse {
	t.Helper()
	c, rec := newJSONContext(http.MethodPost, "/api/v1/auth/login",
		`{"email":"`+email+`","password":"hunter22"}`)
	require.NoError(t, s.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	pair := &TokenPairResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), pair))
	return pair
}

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newTestAPIService(t)

	registerTestUser(t, s, "ada@example.com")
	pair := loginTestUser(t, s, "ada@example.com")

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := s.Signer.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.Subject)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	s, _ := newTestAPIService(t)
	registerTestUser(t, s, "ada@example.com")

	c, _ := newJSONContext(http.MethodPost, "/api/v1/auth/register",
		`{"name":"Imposter","email":"ada@example.com","password":"other"}`)
	err := s.Register(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	s, _ := newTestAPIService(t)
	c, _ := newJSONContext(http.MethodPost, "/api/v1/auth/register", `{"name":"Ada"}`)
	err := s.Register(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s, _ := newTestAPIService(t)
	registerTestUser(t, s, "ada@example.com")

	c, _ := newJSONContext(http.MethodPost, "/api/v1/auth/login",
		`{"email":"ada@example.com","password":"wrong"}`)
	err := s.Login(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	s, _ := newTestAPIService(t)
	registerTestUser(t, s, "ada@example.com")
	pair := loginTestUser(t, s, "ada@example.com")

	c, rec := newJSONContext(http.MethodPost, "/api/v1/auth/refresh",
		`{"refreshToken":"`+pair.RefreshToken+`"}`)
	require.NoError(t, s.RefreshToken(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rotated := &TokenPairResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), rotated))
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token is revoked by the rotation.
	c, _ = newJSONContext(http.MethodPost, "/api/v1/auth/refresh",
		`{"refreshToken":"`+pair.RefreshToken+`"}`)
	err := s.RefreshToken(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	s, _ := newTestAPIService(t)
	c, _ := newJSONContext(http.MethodPost, "/api/v1/auth/refresh", `{"refreshToken":"garbage"}`)
	err := s.RefreshToken(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
