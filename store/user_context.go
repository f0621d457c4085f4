package store

// ContextKind discriminates the durable context summaries kept per user.
type ContextKind string

const (
	// ContextKindChatHistory is the merged memory of past chat sessions.
	ContextKindChatHistory ContextKind = "CHAT_HISTORY"
	// ContextKindQuestionnaire is the summary of the intake questionnaire.
	ContextKindQuestionnaire ContextKind = "QUESTIONNAIRE"
)

// UserContext is a durable compressed memory of a user's prior
// interactions. At most one row exists per (user, kind); writes replace.
type UserContext struct {
	ID        int32
	UserUID   string
	Kind      ContextKind
	Summary   string
	UpdatedTs int64
}

type FindUserContext struct {
	UserUID string
	Kind    *ContextKind
}
