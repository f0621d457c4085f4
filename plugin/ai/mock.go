package ai

import (
	"context"
	"sync"
)

// MockLLMService is an in-memory LLMService for testing.
type MockLLMService struct {
	mu sync.Mutex

	// CompleteErr, when set, fails every Complete call.
	CompleteErr error
	// CompleteReply is returned by Complete when no error is set.
	CompleteReply string
	// SendErr, when set, fails every session Send call.
	SendErr error
	// SendReply is returned by session sends when no error is set.
	SendReply string
	// SendFunc, when set, overrides SendErr/SendReply per prompt.
	SendFunc func(prompt string) (string, error)
	// CompleteFunc, when set, overrides CompleteErr/CompleteReply.
	CompleteFunc func(prompt string) (string, error)

	completePrompts []string
	sessions        []*MockSession
}

// NewMockLLMService creates a new mock with canned replies.
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{
		CompleteReply: "mock completion",
		SendReply:     "mock reply",
	}
}

func (m *MockLLMService) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completePrompts = append(m.completePrompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(prompt)
	}
	if m.CompleteErr != nil {
		return "", m.CompleteErr
	}
	return m.CompleteReply, nil
}

func (m *MockLLMService) OpenSession() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session := &MockSession{svc: m}
	m.sessions = append(m.sessions, session)
	return session
}

// CompletePrompts returns a copy of all prompts passed to Complete.
func (m *MockLLMService) CompletePrompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.completePrompts))
	copy(result, m.completePrompts)
	return result
}

// Sessions returns all sessions opened so far.
func (m *MockLLMService) Sessions() []*MockSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*MockSession, len(m.sessions))
	copy(result, m.sessions)
	return result
}

// MockSession records every prompt it receives.
type MockSession struct {
	svc *MockLLMService

	mu      sync.Mutex
	prompts []string
}

func (s *MockSession) Send(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()
	if s.svc.SendFunc != nil {
		return s.svc.SendFunc(prompt)
	}
	if s.svc.SendErr != nil {
		return "", s.svc.SendErr
	}
	return s.svc.SendReply, nil
}

// Prompts returns a copy of all prompts sent on this session.
func (s *MockSession) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]string, len(s.prompts))
	copy(result, s.prompts)
	return result
}

var (
	_ LLMService = (*MockLLMService)(nil)
	_ Session    = (*MockSession)(nil)
)
