package chat

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/usehealthifier/healthifier/store"
)

// QuestionAnswer is one intake questionnaire pair.
type QuestionAnswer struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// IntakeQuestions is the canned health assessment questionnaire served to
// new clients.
var IntakeQuestions = []string{
	"How would you rate your overall health on a scale of 1 to 10, where 1 is very poor and 10 is excellent?",
	"Do you have any existing medical conditions or chronic illnesses?",
	"Are you currently taking any medications, supplements, or herbal remedies?",
	"How often do you engage in physical activity or exercise?",
	"What does your typical diet look like?",
	"How many hours of sleep do you usually get per night?",
	"Have you experienced any recent changes in your physical or mental well-being?",
}

// StoreIntakeContext runs the one-time questionnaire flow: a short-lived
// session is primed, fed each complete pair as its own turn (replies
// discarded), then asked for a final summary which is persisted under the
// questionnaire context kind. The session never enters the registry; it
// is local to this call and dropped afterwards.
func (s *Service) StoreIntakeContext(ctx context.Context, userUID string, pairs []QuestionAnswer) error {
	if userUID == "" {
		return ErrMissingIdentity
	}

	session := s.llm.OpenSession()
	if _, err := session.Send(ctx, promptIntakeOpening); err != nil {
		return errors.Wrap(err, "failed to open intake session")
	}

	for _, pair := range pairs {
		// Pairs missing either side are skipped without aborting the batch.
		if pair.Question == "" || pair.Answer == "" {
			continue
		}
		if _, err := session.Send(ctx, intakePairPrompt(pair.Question, pair.Answer)); err != nil {
			s.logger.Warn("intake pair dropped", "user", userUID, "error", err)
		}
	}

	summary, err := session.Send(ctx, promptIntakeClosing)
	if err != nil {
		return errors.Wrap(err, "failed to summarize intake questionnaire")
	}

	if _, err := s.contexts.UpsertUserContext(ctx, &store.UserContext{
		UserUID:   userUID,
		Kind:      store.ContextKindQuestionnaire,
		Summary:   summary,
		UpdatedTs: time.Now().Unix(),
	}); err != nil {
		return errors.Wrap(err, "failed to persist intake context")
	}
	return nil
}
