package domain

import (
	"errors"
	"fmt"
)

// ErrNotComputable signals a legitimate state in which a derived figure does
// not exist yet (e.g. P&L on a still-open position). Callers render it as
// "open"/"N/A", not as a failure.
var ErrNotComputable = errors.New("not computable")

// ValidationError reports malformed input on a specific field. It is always
// surfaced to the caller and never silently corrected.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InconsistentStateError reports a discovered invariant violation. It aborts
// the operation in progress and indicates a bug rather than bad input.
type InconsistentStateError struct {
	Op     string
	Detail string
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("inconsistent state in %s: %s", e.Op, e.Detail)
}

// IsInconsistentState reports whether err is (or wraps) an InconsistentStateError
func IsInconsistentState(err error) bool {
	var ie *InconsistentStateError
	return errors.As(err, &ie)
}
