package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a provider that has no backing credentials.
// The orchestrator pattern-matches it to surface a configuration message
// instead of a generic failure.
var ErrNotConfigured = errors.New("completion provider is not configured")

type Message struct {
	Role    string `json:"role"` // system|assistant|user
	Content string `json:"content"`
}

// Provider is the narrow text-completion contract the matchmaking core
// depends on. Implementations own request formatting for their backend.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Close() error
}

// Unconfigured is the provider wired in when no LLM backend is set up. Every
// call fails with ErrNotConfigured so sessions stay resumable.
type Unconfigured struct{}

func (Unconfigured) Complete(ctx context.Context, _ []Message) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) Close() error { return nil }
