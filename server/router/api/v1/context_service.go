package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usehealthifier/healthifier/server/chat"
	"github.com/usehealthifier/healthifier/server/middleware"
)

type StoreIntakeRequest struct {
	Answers []chat.QuestionAnswer `json:"answers"`
}

// ListIntakeQuestions returns the onboarding questionnaire. The client
// collects answers locally and submits them in one batch.
func (s *APIV1Service) ListIntakeQuestions(c echo.Context) error {
	return c.JSON(http.StatusOK, chat.IntakeQuestions)
}

// StoreIntakeContext summarizes the submitted questionnaire answers and
// persists the result as the caller's questionnaire context.
func (s *APIV1Service) StoreIntakeContext(c echo.Context) error {
	ctx := c.Request().Context()
	claims := middleware.UserClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	req := &StoreIntakeRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed intake request").SetInternal(err)
	}
	if len(req.Answers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "answers are required")
	}

	if err := s.ChatService.StoreIntakeContext(ctx, claims.Subject, req.Answers); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store intake context").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"stored": true})
}
