package nlquery

import (
	"context"
	"strings"

	"github.com/enliten/medquery/llm"
	"github.com/enliten/medquery/nlquery/prompts"
)

// AnswerFallback is returned when answer generation fails. The user already
// has tabular results at that point, so synthesis never aborts a pass.
const AnswerFallback = "Unable to generate answer summary."

// NoResultsText stands in for an empty result set when synthesizing.
const NoResultsText = "No results found"

// Synthesizer turns executed query results back into a plain-language
// answer for the physician.
type Synthesizer struct {
	backend llm.Backend
	prompts *prompts.Builder
}

func NewSynthesizer(backend llm.Backend) *Synthesizer {
	return &Synthesizer{
		backend: backend,
		prompts: prompts.NewBuilder(),
	}
}

// Synthesize answers the question from the rendered result text. On backend
// failure it returns AnswerFallback instead of propagating.
func (s *Synthesizer) Synthesize(ctx context.Context, question, resultText string) string {
	answer, err := s.backend.Generate(ctx, llm.Request{
		System:      s.prompts.AnswerSystem(),
		User:        s.prompts.AnswerUser(question, resultText),
		Temperature: 0.5,
		MaxTokens:   300,
	})
	if err != nil || strings.TrimSpace(answer) == "" {
		return AnswerFallback
	}
	return strings.TrimSpace(answer)
}
