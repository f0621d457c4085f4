package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/usehealthifier/healthifier/server/middleware"
	"github.com/usehealthifier/healthifier/store"
)

const (
	promptPlanPersonalized = "Generate a weekly %s plan for the user. Here is what is known about the user: %s. Keep the plan practical and easy to follow, one section per day."
	promptPlanGeneralized  = "Generate a generalized weekly %s plan suitable for an average healthy adult. Keep the plan practical and easy to follow, one section per day."
)

// PlanResponse carries a generated plan. Generalized is true when no
// stored context was available and the plan is not tailored to the user.
type PlanResponse struct {
	PlanDetails string `json:"planDetails"`
	Generalized bool   `json:"isGeneralisedPlan"`
}

func (s *APIV1Service) GetMealPlan(c echo.Context) error {
	return s.generatePlan(c, store.PlanKindMeal, "meal")
}

func (s *APIV1Service) GetWorkoutPlan(c echo.Context) error {
	return s.generatePlan(c, store.PlanKindWorkout, "workout")
}

// generatePlan produces a fresh plan on every call and replaces the
// stored one. When the user has any context summary the plan is
// personalized; otherwise a generalized plan is returned and flagged.
func (s *APIV1Service) generatePlan(c echo.Context, kind store.PlanKind, label string) error {
	ctx := c.Request().Context()
	claims := middleware.UserClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	if err := s.planSemaphore.Acquire(ctx, 1); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "plan generation is busy").SetInternal(err)
	}
	defer s.planSemaphore.Release(1)

	userContext, err := s.Store.GetUserContext(ctx, &store.FindUserContext{UserUID: claims.Subject})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user context").SetInternal(err)
	}

	generalized := userContext == nil || userContext.Summary == ""
	var prompt string
	if generalized {
		prompt = fmt.Sprintf(promptPlanGeneralized, label)
	} else {
		prompt = fmt.Sprintf(promptPlanPersonalized, label, userContext.Summary)
	}

	content, err := s.LLMService.Complete(ctx, prompt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "plan generation failed").SetInternal(err)
	}

	plan, err := s.Store.UpsertPlan(ctx, &store.Plan{
		UserUID:     claims.Subject,
		Kind:        kind,
		Content:     content,
		Generalized: generalized,
		CreatedTs:   time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store plan").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &PlanResponse{
		PlanDetails: plan.Content,
		Generalized: plan.Generalized,
	})
}
