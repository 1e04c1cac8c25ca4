// Package engine abstracts the external analysis engines (LLM providers)
// the review pipeline calls. Implementations are plain HTTP clients; the
// pipeline treats every failure as recoverable per call.
package engine

import (
	"context"
	"fmt"
)

// Options carries per-call generation settings.
type Options struct {
	SystemPrompt string
	MaxTokens    int
}

// Engine generates free-form text for a prompt. Calls are synchronous,
// I/O-bound, and may fail; the engine imposes its own timeout.
type Engine interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	Name() string
}

// New creates an engine by provider name.
func New(provider, model string) (Engine, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
