package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/usehealthifier/healthifier/plugin/ai"
	"github.com/usehealthifier/healthifier/store"
)

// HistoryStore is the append-only per-user turn log.
type HistoryStore interface {
	CreateChatTurn(ctx context.Context, create *store.ChatTurn) (*store.ChatTurn, error)
	ListChatTurns(ctx context.Context, find *store.FindChatTurn) ([]*store.ChatTurn, error)
}

// ContextStore is the durable per-(user, kind) summary store.
type ContextStore interface {
	GetUserContext(ctx context.Context, find *store.FindUserContext) (*store.UserContext, error)
	UpsertUserContext(ctx context.Context, upsert *store.UserContext) (*store.UserContext, error)
}

// Service runs live chat sessions: it bootstraps them from history,
// relays wrapped turns, and collapses them back into durable context
// summaries on end.
type Service struct {
	llm      ai.LLMService
	history  HistoryStore
	contexts ContextStore
	registry *Registry

	historyWindow int
	logger        *slog.Logger
}

// NewService creates the chat service. store.Store satisfies both store
// interfaces.
func NewService(llm ai.LLMService, history HistoryStore, contexts ContextStore, registry *Registry, historyWindow int) *Service {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &Service{
		llm:           llm,
		history:       history,
		contexts:      contexts,
		registry:      registry,
		historyWindow: historyWindow,
		logger:        slog.Default(),
	}
}

// Registry exposes the session registry, e.g. for inspection in tests.
func (s *Service) Registry() *Registry {
	return s.registry
}

// ErrMissingIdentity is returned for operations without a resolvable user.
var ErrMissingIdentity = errors.New("missing user identity")

// HandleMessage processes one inbound chat turn for the user and returns
// the reply to relay. Calls for the same user are serialized; a failed
// model round-trip degrades to a fallback reply rather than an error, but
// a failed bootstrap propagates since there is no session to answer from.
func (s *Service) HandleMessage(ctx context.Context, userUID, text string, clientTs time.Time) (string, error) {
	if userUID == "" {
		return "", ErrMissingIdentity
	}

	unlock := s.registry.LockUser(userUID)
	defer unlock()

	session, ok := s.registry.Get(userUID)
	if !ok {
		opened, err := s.bootstrapSession(ctx, userUID)
		if err != nil {
			return "", err
		}
		s.registry.Put(userUID, opened)
		session = opened
	}

	reply, err := session.Send(ctx, wrapUserMessage(text))
	if err != nil {
		s.logger.Warn("model round-trip failed", "user", userUID, "error", err)
		reply = FailedReply
	}

	if clientTs.IsZero() {
		clientTs = time.Now()
	}
	// Availability over durability: a persistence failure must never keep
	// the reply from the client.
	if _, err := s.history.CreateChatTurn(ctx, &store.ChatTurn{
		UID:       shortuuid.New(),
		UserUID:   userUID,
		Message:   text,
		Reply:     reply,
		MessageTs: clientTs.Unix(),
		ReplyTs:   time.Now().Unix(),
	}); err != nil {
		s.logger.Error("failed to persist chat turn", "user", userUID, "error", err)
	}

	return reply, nil
}

// EndSession collapses the user's live session into a durable context
// summary and releases the handle. No-op when no session exists. Every
// step is best-effort except the removal, which is unconditional: a stuck
// session must never remain registered.
func (s *Service) EndSession(ctx context.Context, userUID string) {
	if userUID == "" {
		s.logger.Warn("session end without user identity, dropping")
		return
	}

	unlock := s.registry.LockUser(userUID)
	defer unlock()

	session, ok := s.registry.Get(userUID)
	if !ok {
		return
	}
	defer s.registry.Remove(userUID)

	summary, err := session.Send(ctx, promptSummarize)
	if err != nil {
		// Nothing usable to persist; the previously stored summary stays.
		s.logger.Warn("session self-summary failed, keeping prior context", "user", userUID, "error", err)
		return
	}

	kind := store.ContextKindChatHistory
	prior, err := s.contexts.GetUserContext(ctx, &store.FindUserContext{UserUID: userUID, Kind: &kind})
	if err != nil {
		s.logger.Warn("failed to read prior context, persisting fresh summary alone", "user", userUID, "error", err)
		prior = nil
	}

	if prior != nil && prior.Summary != "" {
		merged, err := s.llm.Complete(ctx, mergePrompt(summary, prior.Summary))
		if err != nil {
			// Best-effort merge: fall back to the raw self-summary.
			s.logger.Warn("context merge failed, using fresh summary", "user", userUID, "error", err)
		} else {
			summary = merged
		}
	}

	if _, err := s.contexts.UpsertUserContext(ctx, &store.UserContext{
		UserUID:   userUID,
		Kind:      kind,
		Summary:   summary,
		UpdatedTs: time.Now().Unix(),
	}); err != nil {
		s.logger.Error("failed to persist context summary", "user", userUID, "error", err)
	}
}

// StartIdleSweeper evicts sessions abandoned past the registry's idle
// timeout, reconciling each through the normal end-of-session path. Runs
// until ctx is done.
func (s *Service) StartIdleSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, uid := range s.registry.IdleUsers(time.Now()) {
					s.logger.Info("evicting idle chat session", "user", uid)
					s.EndSession(ctx, uid)
				}
			}
		}
	}()
}
