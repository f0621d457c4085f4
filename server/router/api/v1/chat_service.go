package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usehealthifier/healthifier/server/middleware"
	"github.com/usehealthifier/healthifier/store"
)

// ChatMessageResponse is one side of a persisted exchange, flattened so
// clients can render the transcript as a plain message list.
type ChatMessageResponse struct {
	Message string `json:"message"`
	Ts      int64  `json:"ts"`
	Sender  string `json:"sender"`
}

const (
	senderUser = "user"
	senderAI   = "ai"
)

// ListChatMessages returns the caller's full chat transcript in
// chronological order, two entries per stored turn.
func (s *APIV1Service) ListChatMessages(c echo.Context) error {
	ctx := c.Request().Context()
	claims := middleware.UserClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	turns, err := s.Store.ListChatTurns(ctx, &store.FindChatTurn{UserUID: &claims.Subject})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list chat turns").SetInternal(err)
	}
	messages := make([]*ChatMessageResponse, 0, len(turns)*2)
	for _, turn := range turns {
		messages = append(messages, &ChatMessageResponse{
			Message: turn.Message,
			Ts:      turn.MessageTs,
			Sender:  senderUser,
		})
		messages = append(messages, &ChatMessageResponse{
			Message: turn.Reply,
			Ts:      turn.ReplyTs,
			Sender:  senderAI,
		})
	}
	return c.JSON(http.StatusOK, messages)
}
