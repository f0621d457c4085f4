package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usehealthifier/healthifier/server/chat"
	"github.com/usehealthifier/healthifier/store"
)

func TestListIntakeQuestions(t *testing.T) {
	s, _ := newTestAPIService(t)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/contexts/questions", "")
	require.NoError(t, s.ListIntakeQuestions(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var questions []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
	assert.Equal(t, chat.IntakeQuestions, questions)
}

func TestStoreIntakeContext_PersistsSummary(t *testing.T) {
	s, llm := newTestAPIService(t)
	llm.SendReply = "intake keywords"

	body := `{"answers":[{"q":"How do you sleep?","a":"Badly"},{"q":"Any medication?","a":"None"}]}`
	c, rec := newJSONContext(http.MethodPost, "/api/v1/contexts/intake", body)
	require.NoError(t, s.StoreIntakeContext(withClaims(c, "user-1")))
	require.Equal(t, http.StatusOK, rec.Code)

	kind := store.ContextKindQuestionnaire
	stored, err := s.Store.GetUserContext(context.Background(), &store.FindUserContext{
		UserUID: "user-1",
		Kind:    &kind,
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "intake keywords", stored.Summary)
}

func TestStoreIntakeContext_RequiresAnswers(t *testing.T) {
	s, _ := newTestAPIService(t)

	c, _ := newJSONContext(http.MethodPost, "/api/v1/contexts/intake", `{"answers":[]}`)
	err := s.StoreIntakeContext(withClaims(c, "user-1"))
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
