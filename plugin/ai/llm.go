// Package ai wraps the conversational model behind a narrow capability:
// single-shot completion plus stateful multi-turn sessions. Session turn
// history lives in process memory only; durable context is the caller's
// responsibility.
package ai

import (
	"context"
	"math"
	"sync"
	"time"

	"log/slog"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/usehealthifier/healthifier/internal/profile"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		ChatModel:  "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    2 * time.Minute,
	}
}

// NewConfigFromProfile builds a provider config from the server profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := DefaultConfig()
	cfg.APIKey = p.AIAPIKey
	if p.AIBaseURL != "" {
		cfg.BaseURL = p.AIBaseURL
	}
	if p.AIChatModel != "" {
		cfg.ChatModel = p.AIChatModel
	}
	return cfg
}

// Session is one live multi-turn conversation. Turn history is preserved
// for the lifetime of the handle, in memory only.
type Session interface {
	// Send sends one turn and returns the model reply.
	Send(ctx context.Context, prompt string) (string, error)
}

// LLMService is the conversational capability consumed by the chat core.
type LLMService interface {
	// Complete performs a single-shot completion.
	Complete(ctx context.Context, prompt string) (string, error)

	// OpenSession opens a new multi-turn session.
	OpenSession() Session
}

type llmService struct {
	client *openai.Client
	config *Config
}

// NewLLMService creates a new LLMService. A missing API key is a
// configuration error and must abort startup.
func NewLLMService(cfg *Config) (LLMService, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, errors.New("AI API key is required, set HEALTHIFIER_AI_API_KEY")
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &llmService{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Complete performs a single-shot chat completion.
func (s *llmService) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	result, err := s.chat(ctx, messages)
	if err != nil {
		return "", errors.Wrap(err, "failed to complete prompt")
	}
	return result, nil
}

// OpenSession opens a new multi-turn session backed by this client.
func (s *llmService) OpenSession() Session {
	return &chatSession{svc: s}
}

// chatSession accumulates turn history and replays it on every send.
// The mutex serializes sends on the same handle; cross-user ordering is
// not this layer's concern.
type chatSession struct {
	svc *llmService

	mu       sync.Mutex
	messages []openai.ChatCompletionMessage
}

func (c *chatSession) Send(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := append(c.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	result, err := c.svc.chat(ctx, messages)
	if err != nil {
		return "", errors.Wrap(err, "failed to send session turn")
	}

	c.messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: result,
	})
	return result, nil
}

// chat runs one completion with timeout and exponential backoff retry.
func (s *llmService) chat(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var result string
	err := s.doWithRetry(ctx, func() error {
		req := openai.ChatCompletionRequest{
			Model:    s.config.ChatModel,
			Messages: messages,
		}
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (s *llmService) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < s.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("AI request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}

var _ LLMService = (*llmService)(nil)
