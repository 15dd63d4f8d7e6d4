package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message is one role-tagged entry of the chat-completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DeltaHandler receives streaming reply fragments.
type DeltaHandler func(delta string) error

var (
	// ErrUnavailable reports a transport or timeout failure talking to the
	// model backend. The whole turn is safe to retry.
	ErrUnavailable = errors.New("model backend unavailable")
	// ErrBadResponse reports a malformed or empty model reply.
	ErrBadResponse = errors.New("model response malformed or empty")
)

// Client produces a chat completion for an ordered message sequence.
// onDelta may be nil; when set it receives reply fragments as they arrive
// and the returned string is the concatenated full reply.
type Client interface {
	ChatComplete(ctx context.Context, msgs []Message, onDelta DeltaHandler) (string, error)
}

// Config controls client construction.
type Config struct {
	Mode    string
	BaseURL string
	Model   string
}

// NewClient builds a model client for the configured mode.
func NewClient(cfg Config) (Client, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.BaseURL) != "" {
			return NewOllamaClient(cfg.BaseURL, cfg.Model), nil
		}
		return NewMockClient(), nil
	case "ollama":
		if strings.TrimSpace(cfg.BaseURL) == "" {
			return nil, errors.New("ollama base URL is required for ollama mode")
		}
		return NewOllamaClient(cfg.BaseURL, cfg.Model), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported model client mode %q", cfg.Mode)
	}
}
