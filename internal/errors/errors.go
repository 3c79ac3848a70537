package errors

import (
	"errors"
	"fmt"
)

// SniffError is the structured error type for sniff.
// It carries enough context for logging and for a one-shot CLI message.
type SniffError struct {
	// Code is the unique error code (e.g., "ERR_102_CONFIG_INVALID").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Process, Watch, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *SniffError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SniffError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *SniffError) Is(target error) bool {
	if t, ok := target.(*SniffError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *SniffError) WithDetail(key, value string) *SniffError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *SniffError) WithSuggestion(suggestion string) *SniffError {
	e.Suggestion = suggestion
	return e
}

// New creates a new SniffError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *SniffError {
	return &SniffError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a SniffError from an existing error.
// The error's message becomes the SniffError message.
func Wrap(code string, err error) *SniffError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *SniffError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// TypeError reports a configuration value of the wrong shape for key.
func TypeError(key, want string) *SniffError {
	return New(ErrCodeConfigType, fmt.Sprintf("key %q only takes %s", key, want), nil).
		WithDetail("key", key)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the process.
func IsFatal(err error) bool {
	var se *SniffError
	if errors.As(err, &se) {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a SniffError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var se *SniffError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
