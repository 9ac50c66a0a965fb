package llm

import (
	"context"
	"fmt"
)

// Role identifies the author of a chat message in provider-agnostic terms.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// NormalizeRole maps the role vocabularies found in stored history
// ("human", "ai", "model", ...) onto the canonical Role set. Anything
// unrecognized is treated as a user message on purpose: an unmapped role
// must degrade to the least privileged one, never to system.
func NormalizeRole(raw string) Role {
	switch raw {
	case "user", "human":
		return RoleUser
	case "assistant", "ai", "model":
		return RoleAssistant
	case "system":
		return RoleSystem
	default:
		return RoleUser
	}
}

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role    Role
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Apply folds a list of options onto defaults.
func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// Provider defines the contract for any completion backend. Implementations
// map the canonical roles into the backend's vocabulary, send the full
// history, and return the text of the top response candidate.
type Provider interface {
	// Name identifies the backend in logs and errors ("openai", "gemini").
	Name() string

	// Chat sends a chat history to the model and returns the response text.
	// Every failure (transport, auth, quota, malformed response, timeout)
	// is returned as a *ProviderError so callers can decide on failover.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
}

// ProviderError wraps any failure of a single completion backend.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CompletionUnavailableError means both the primary and the secondary
// backend failed for one request. It is the only completion failure that
// surfaces past the agent; callers show a generic unavailability message.
type CompletionUnavailableError struct {
	Primary   error
	Secondary error
}

func (e *CompletionUnavailableError) Error() string {
	return fmt.Sprintf("completion unavailable: primary: %v; secondary: %v", e.Primary, e.Secondary)
}
