package engine

import "fmt"

// The error taxonomy is converted into response values at the engine
// boundary; nothing here propagates as a fault to the caller process.

// ValidationError: a required argument is missing or malformed. No
// statement was executed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, a ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, a...)}
}

// StatementError: the underlying database rejected the generated SQL. The
// statement text is still returned to the caller for debuggability.
type StatementError struct {
	Err error
}

func (e *StatementError) Error() string { return e.Err.Error() }

func (e *StatementError) Unwrap() error { return e.Err }
