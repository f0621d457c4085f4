package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usehealthifier/healthifier/store"
)

func TestGetMealPlan_GeneralizedWithoutContext(t *testing.T) {
	s, llm := newTestAPIService(t)
	llm.CompleteReply = "oatmeal all week"

	c, rec := newJSONContext(http.MethodGet, "/api/v1/plans/meal", "")
	require.NoError(t, s.GetMealPlan(withClaims(c, "user-1")))
	require.Equal(t, http.StatusOK, rec.Code)

	response := &PlanResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), response))
	assert.Equal(t, "oatmeal all week", response.PlanDetails)
	assert.True(t, response.Generalized)

	prompts := llm.CompletePrompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "generalized weekly meal plan")
}

func TestGetWorkoutPlan_PersonalizedWithContext(t *testing.T) {
	s, llm := newTestAPIService(t)
	llm.CompleteReply = "push pull legs"

	_, err := s.Store.UpsertUserContext(context.Background(), &store.UserContext{
		UserUID:   "user-1",
		Kind:      store.ContextKindQuestionnaire,
		Summary:   "vegetarian, knee injury",
		UpdatedTs: time.Now().Unix(),
	})
	require.NoError(t, err)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/plans/workout", "")
	require.NoError(t, s.GetWorkoutPlan(withClaims(c, "user-1")))
	require.Equal(t, http.StatusOK, rec.Code)

	response := &PlanResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), response))
	assert.False(t, response.Generalized)

	prompts := llm.CompletePrompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "weekly workout plan")
	assert.Contains(t, prompts[0], "vegetarian, knee injury")
}

func TestGetMealPlan_ReplacesStoredPlan(t *testing.T) {
	s, llm := newTestAPIService(t)

	llm.CompleteReply = "first plan"
	c, _ := newJSONContext(http.MethodGet, "/api/v1/plans/meal", "")
	require.NoError(t, s.GetMealPlan(withClaims(c, "user-1")))

	llm.CompleteReply = "second plan"
	c, _ = newJSONContext(http.MethodGet, "/api/v1/plans/meal", "")
	require.NoError(t, s.GetMealPlan(withClaims(c, "user-1")))

	kind := store.PlanKindMeal
	stored, err := s.Store.GetPlan(context.Background(), &store.FindPlan{UserUID: "user-1", Kind: &kind})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "second plan", stored.Content)
}

func TestGetMealPlan_ModelFailure(t *testing.T) {
	s, llm := newTestAPIService(t)
	llm.CompleteErr = assert.AnError

	c, _ := newJSONContext(http.MethodGet, "/api/v1/plans/meal", "")
	err := s.GetMealPlan(withClaims(c, "user-1"))
	require.Error(t, err)
}
