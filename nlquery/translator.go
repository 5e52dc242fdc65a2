package nlquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/enliten/medquery/llm"
	"github.com/enliten/medquery/nlquery/prompts"
)

// ExplanationFallback replaces the explanation when its sub-call fails. The
// explanation is best-effort; the SQL is required.
const ExplanationFallback = "Query explanation unavailable."

// TranslationError reports a failed or unusable SQL generation.
type TranslationError struct {
	Err error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation error: %v", e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Translator converts a physician's question into a candidate SQL statement
// plus a short plain-language explanation.
type Translator struct {
	backend llm.Backend
	prompts *prompts.Builder
}

func NewTranslator(backend llm.Backend) *Translator {
	return &Translator{
		backend: backend,
		prompts: prompts.NewBuilder(),
	}
}

// Translate generates SQL for the question against the described schema.
// SQL generation runs near-deterministic; the explanation uses a slightly
// higher temperature and degrades to ExplanationFallback on failure.
func (t *Translator) Translate(ctx context.Context, question, schemaText string) (string, string, error) {
	raw, err := t.backend.Generate(ctx, llm.Request{
		System:      t.prompts.SQLSystem(schemaText),
		User:        t.prompts.SQLUser(question),
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return "", "", &TranslationError{Err: err}
	}

	sql := stripFences(raw)
	if sql == "" {
		return "", "", &TranslationError{Err: fmt.Errorf("empty SQL query after extraction")}
	}

	explanation, err := t.backend.Generate(ctx, llm.Request{
		System:      t.prompts.ExplanationSystem(),
		User:        t.prompts.ExplanationUser(question, sql),
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil || strings.TrimSpace(explanation) == "" {
		explanation = ExplanationFallback
	}

	return sql, strings.TrimSpace(explanation), nil
}

// fenceTags are the language tags backends wrap SQL output in.
var fenceTags = map[string]bool{
	"":           true,
	"sql":        true,
	"sqlite":     true,
	"sqlite3":    true,
	"postgresql": true,
	"mysql":      true,
}

// stripFences removes surrounding markdown code-fence markup, with or
// without a language tag, leaving the inner SQL untouched.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")

	if i := strings.Index(s, "\n"); i >= 0 {
		if fenceTags[strings.ToLower(strings.TrimSpace(s[:i]))] {
			s = s[i+1:]
		}
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
