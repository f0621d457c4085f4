package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersHidesCredentials(t *testing.T) {
	s, _ := newTestAPIService(t)
	registerTestUser(t, s, "ada@example.com")

	c, rec := newJSONContext(http.MethodGet, "/api/v1/users", "")
	require.NoError(t, s.ListUsers(withClaims(c, "user-1")))

	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "ada@example.com", users[0]["email"])
	assert.NotContains(t, users[0], "passwordHash")
	assert.NotContains(t, users[0], "refreshToken")
}

func TestGetUserNotFound(t *testing.T) {
	s, _ := newTestAPIService(t)

	c, _ := newJSONContext(http.MethodGet, "/api/v1/users/nope", "")
	c.SetParamNames("uid")
	c.SetParamValues("nope")
	err := s.GetUser(withClaims(c, "user-1"))
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
