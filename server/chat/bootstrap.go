package chat

import (
	"context"

	"github.com/pkg/errors"

	"github.com/usehealthifier/healthifier/plugin/ai"
	"github.com/usehealthifier/healthifier/store"
)

// bootstrapSession opens a new AI session for the user, primed with the
// most recent history window. The priming reply is discarded. The session
// is returned unregistered: the caller registers it only after this
// succeeds, so a failed priming never leaves a partial handle behind.
func (s *Service) bootstrapSession(ctx context.Context, userUID string) (ai.Session, error) {
	turns, err := s.history.ListChatTurns(ctx, &store.FindChatTurn{
		UserUID: &userUID,
		Limit:   &s.historyWindow,
	})
	if err != nil {
		// History is an aid, not a prerequisite: open a fresh session
		// without it rather than refusing the chat.
		s.logger.Warn("failed to load chat history for priming", "user", userUID, "error", err)
		turns = nil
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		if line := renderTurn(turn.Message, turn.Reply); line != "" {
			lines = append(lines, line)
		}
	}

	session := s.llm.OpenSession()
	if _, err := session.Send(ctx, primingPrompt(lines)); err != nil {
		return nil, errors.Wrap(err, "failed to prime session")
	}
	return session, nil
}
