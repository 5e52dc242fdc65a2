package store

import "fmt"

// LoadError reports a malformed tabular source. It is fatal to that source
// only; loading of other sources continues.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ExecutionError wraps the engine's message for a query that failed to
// execute: malformed SQL, unknown identifiers, type mismatches.
type ExecutionError struct {
	Query string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution error: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
