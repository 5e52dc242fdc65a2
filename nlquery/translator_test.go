package nlquery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/enliten/medquery/llm"
)

// fakeBackend replays scripted responses in order. A response may instead be
// an error. It records every request it receives.
type fakeBackend struct {
	responses []string
	errs      []error
	calls     int
	requests  []llm.Request
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(_ context.Context, req llm.Request) (string, error) {
	i := f.calls
	f.calls++
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("fake backend exhausted")
}

func (f *fakeBackend) Close() error { return nil }

func TestTranslate(t *testing.T) {
	backend := &fakeBackend{responses: []string{
		"SELECT * FROM patients",
		"This query lists every patient record.",
	}}
	tr := NewTranslator(backend)

	sql, explanation, err := tr.Translate(context.Background(), "show all patients", "schema text")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if sql != "SELECT * FROM patients" {
		t.Errorf("sql = %q", sql)
	}
	if explanation != "This query lists every patient record." {
		t.Errorf("explanation = %q", explanation)
	}
	if backend.calls != 2 {
		t.Errorf("backend called %d times, want 2", backend.calls)
	}

	// The schema text is the only channel the translator learns the
	// schema through, so it must reach the system instruction.
	if !strings.Contains(backend.requests[0].System, "schema text") {
		t.Error("SQL generation prompt does not carry the schema description")
	}
	if backend.requests[0].Temperature >= backend.requests[1].Temperature {
		t.Error("SQL generation should use a lower temperature than the explanation")
	}
}

func TestTranslateBackendFailure(t *testing.T) {
	backend := &fakeBackend{errs: []error{errors.New("backend down")}}
	tr := NewTranslator(backend)

	_, _, err := tr.Translate(context.Background(), "q", "s")
	if err == nil {
		t.Fatal("Translate() succeeded with a failing backend")
	}
	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T, want *TranslationError", err)
	}
}

func TestTranslateEmptyOutput(t *testing.T) {
	backend := &fakeBackend{responses: []string{"```sql\n```"}}
	tr := NewTranslator(backend)

	_, _, err := tr.Translate(context.Background(), "q", "s")
	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TranslationError for empty SQL", err)
	}
}

func TestTranslateExplanationBestEffort(t *testing.T) {
	backend := &fakeBackend{
		responses: []string{"SELECT 1", ""},
		errs:      []error{nil, errors.New("quota exceeded")},
	}
	tr := NewTranslator(backend)

	sql, explanation, err := tr.Translate(context.Background(), "q", "s")
	if err != nil {
		t.Fatalf("Translate() error = %v, explanation failures must not fail translation", err)
	}
	if sql != "SELECT 1" {
		t.Errorf("sql = %q", sql)
	}
	if explanation != ExplanationFallback {
		t.Errorf("explanation = %q, want fallback %q", explanation, ExplanationFallback)
	}
}

func TestStripFences(t *testing.T) {
	const want = "SELECT * FROM patients"
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "bare", raw: "SELECT * FROM patients"},
		{name: "padded", raw: "  SELECT * FROM patients\n"},
		{name: "sql tag", raw: "```sql\nSELECT * FROM patients\n```"},
		{name: "uppercase tag", raw: "```SQL\nSELECT * FROM patients\n```"},
		{name: "sqlite tag", raw: "```sqlite\nSELECT * FROM patients\n```"},
		{name: "bare fence", raw: "```\nSELECT * FROM patients\n```"},
		{name: "unclosed fence", raw: "```sql\nSELECT * FROM patients"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.raw); got != want {
				t.Errorf("stripFences(%q) = %q, want %q", tc.raw, got, want)
			}
		})
	}
}

func TestStripFencesNormalizesBothForms(t *testing.T) {
	tagged := stripFences("```sql\nSELECT 1\n```")
	bare := stripFences("```\nSELECT 1\n```")
	if tagged != bare {
		t.Errorf("tagged fence = %q, bare fence = %q, want identical", tagged, bare)
	}
}

func TestSynthesizeFallback(t *testing.T) {
	backend := &fakeBackend{errs: []error{errors.New("backend down")}}
	s := NewSynthesizer(backend)

	answer := s.Synthesize(context.Background(), "q", "result text")
	if answer != AnswerFallback {
		t.Errorf("Synthesize() = %q, want fallback %q", answer, AnswerFallback)
	}
}

func TestSynthesize(t *testing.T) {
	backend := &fakeBackend{responses: []string{"The average QoL score is 56."}}
	s := NewSynthesizer(backend)

	answer := s.Synthesize(context.Background(), "what is the average QoL score", "56.0")
	if answer != "The average QoL score is 56." {
		t.Errorf("Synthesize() = %q", answer)
	}
	if backend.requests[0].Temperature != 0.5 {
		t.Errorf("synthesis temperature = %v, want 0.5", backend.requests[0].Temperature)
	}
}
