package domain

import "fmt"

// ValidationError reports malformed input (empty content, unknown channel,
// out-of-range rule parameters). Rejected before any state mutation and
// never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ClassificationError reports that the external classifier was unavailable
// or timed out. Ingest aborts atomically; the caller may retry the whole
// add-message call.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// NewClassificationError wraps err as a ClassificationError.
func NewClassificationError(err error) *ClassificationError {
	return &ClassificationError{Err: err}
}

// InsufficientDataError reports that root-cause analysis was requested with
// no negative messages to analyze.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s", e.Reason)
}

// NewInsufficientDataError creates an InsufficientDataError.
func NewInsufficientDataError(reason string) *InsufficientDataError {
	return &InsufficientDataError{Reason: reason}
}
