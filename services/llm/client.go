package llm

import (
	"context"
	"fmt"
)

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// Client defines the standard interface for any generative-text backend.
//
// Every error returned by Generate is a capability failure (timeout, quota,
// network, bad response). Callers are expected to degrade gracefully rather
// than surface it to users.
type Client interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)

	// Name identifies the backend and model for logs and metrics labels.
	Name() string
}

// NewFromEnv constructs a Client for the given backend type.
//
// Supported values: "openai", "ollama". An empty string returns (nil, nil),
// meaning no generative backend is configured and callers should run
// rule-based only.
func NewFromEnv(backendType string) (Client, error) {
	switch backendType {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIClient()
	case "ollama":
		return NewOllamaClient()
	default:
		return nil, fmt.Errorf("unknown LLM backend type %q", backendType)
	}
}
