// Package nlquery implements the natural-language query pipeline: a
// translator that generates SQL from a question, a synthesizer that turns
// results back into prose, and the engine that sequences translation,
// validation, execution, and answer synthesis per question.
package nlquery

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/enliten/medquery/store"
	"github.com/enliten/medquery/validate"
)

// backendTimeout bounds each external generation call so a stalled backend
// surfaces as a failure instead of hanging the pass.
const backendTimeout = 45 * time.Second

// State tracks one question through the pipeline.
type State int

const (
	StateReceived State = iota
	StateTranslated
	StateValidated
	StateExecuted
	StateAnswered
	StateRejected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateTranslated:
		return "translated"
	case StateValidated:
		return "validated"
	case StateExecuted:
		return "executed"
	case StateAnswered:
		return "answered"
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// QueryRecord is the persisted artifact of one completed question/answer
// cycle. Records live for the session and are discarded on reset.
type QueryRecord struct {
	Question string
	SQL      string
	RowCount int
	Answer   string
}

// Outcome is the presentation-boundary result of one pass.
type Outcome struct {
	State       State
	SQL         string
	Explanation string
	Results     *store.ResultSet
	Answer      string
	Err         error
}

// Store is the execution surface the engine depends on.
type Store interface {
	Schema() *store.Schema
	Execute(ctx context.Context, query string) (*store.ResultSet, error)
}

// Engine sequences translator, validator, store, and synthesizer for each
// question. Questions are processed synchronously and independently; the
// only state carried across questions is the append-only history.
type Engine struct {
	store       Store
	translator  *Translator
	synthesizer *Synthesizer
	history     []QueryRecord
	log         *logrus.Logger
}

func NewEngine(st Store, translator *Translator, synthesizer *Synthesizer, log *logrus.Logger) *Engine {
	return &Engine{
		store:       st,
		translator:  translator,
		synthesizer: synthesizer,
		log:         log,
	}
}

// Ask runs the full pipeline for one natural-language question. No query
// reaches Execute without passing validation first.
func (e *Engine) Ask(ctx context.Context, question string) *Outcome {
	out := &Outcome{State: StateReceived}

	schemaText := store.Describe(e.store.Schema())

	tctx, cancel := context.WithTimeout(ctx, backendTimeout)
	sql, explanation, err := e.translator.Translate(tctx, question, schemaText)
	cancel()
	if err != nil {
		e.log.WithError(err).Warn("translation failed")
		out.State = StateFailed
		out.Err = err
		return out
	}
	out.State = StateTranslated
	out.SQL = sql
	out.Explanation = explanation

	if v := validate.Check(sql); !v.Allowed {
		e.log.WithField("reason", v.Reason).Warn("query rejected")
		out.State = StateRejected
		out.Err = &validate.Rejection{Reason: v.Reason}
		return out
	}
	out.State = StateValidated

	results, err := e.store.Execute(ctx, sql)
	if err != nil {
		e.log.WithError(err).Warn("query execution failed")
		out.State = StateFailed
		out.Err = err
		return out
	}
	out.State = StateExecuted
	out.Results = results

	resultText := NoResultsText
	if !results.Empty() {
		resultText = results.String()
	}
	sctx, cancel := context.WithTimeout(ctx, backendTimeout)
	out.Answer = e.synthesizer.Synthesize(sctx, question, resultText)
	cancel()
	out.State = StateAnswered

	e.history = append(e.history, QueryRecord{
		Question: question,
		SQL:      sql,
		RowCount: results.Len(),
		Answer:   out.Answer,
	})
	return out
}

// Direct runs a user-authored SQL string through the same validation and
// execution contract, skipping translation and answer synthesis.
func (e *Engine) Direct(ctx context.Context, query string) *Outcome {
	out := &Outcome{State: StateReceived, SQL: query}

	if v := validate.Check(query); !v.Allowed {
		out.State = StateRejected
		out.Err = &validate.Rejection{Reason: v.Reason}
		return out
	}
	out.State = StateValidated

	results, err := e.store.Execute(ctx, query)
	if err != nil {
		out.State = StateFailed
		out.Err = err
		return out
	}
	out.State = StateExecuted
	out.Results = results
	return out
}

// History returns a copy of the session's completed query records.
func (e *Engine) History() []QueryRecord {
	records := make([]QueryRecord, len(e.history))
	copy(records, e.history)
	return records
}

// Reset discards the session history.
func (e *Engine) Reset() {
	e.history = nil
}
