// Package llm provides a provider-agnostic text-generation backend used for
// SQL generation, query explanation, and answer synthesis.
package llm

import (
	"context"
	"fmt"
)

// Supported provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Request is one generation call. Temperature controls determinism (low for
// SQL, higher for prose) and MaxTokens bounds the output length.
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Backend is the swappable generation capability. Implementations are safe
// for sequential use from a single orchestration pass.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

// New constructs the backend for the named provider. Gemini uses every key
// in the ring; OpenAI uses the single key.
func New(ctx context.Context, provider string, geminiKeys *KeyRing, openaiKey string) (Backend, error) {
	switch provider {
	case ProviderGemini:
		return NewGemini(ctx, geminiKeys)
	case ProviderOpenAI:
		return NewOpenAI(openaiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
