// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// validation, generation, server) and for carrying the underlying cause.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorConfig   = 4   // Indicates a configuration error (including invalid counts).
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ErrInvalidCount is the sentinel carried by every InvalidCount validation
// error. Use errors.Is(err, ErrInvalidCount) or IsInvalidCount to detect it.
var ErrInvalidCount = errors.New("count must be a non-negative integer")

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// GenerationError encapsulates a failure while extracting the terms of a
// sequence, preserving the original cause and the sequence involved.
type GenerationError struct {
	// Sequence is the name of the sequence being generated.
	Sequence string
	// Cause is the underlying error that interrupted generation.
	Cause error
}

// Error returns the sequence name followed by the underlying cause.
func (e GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Sequence, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e GenerationError) Unwrap() error { return e.Cause }

// NewGenerationError wraps cause into a GenerationError for the given sequence.
// It returns nil when cause is nil.
func NewGenerationError(sequence string, cause error) error {
	if cause == nil {
		return nil
	}
	return GenerationError{Sequence: sequence, Cause: cause}
}

// ServerError represents errors that occur in the HTTP server component.
// It wraps an underlying error with additional context specific to the server operation.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ServerError.
// It combines the descriptive message and the underlying cause if present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
//
// Parameters:
//   - message: A description of the error context.
//   - cause: The underlying error that occurred (can be nil).
//
// Returns:
//   - error: A new ServerError instance.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError represents an error due to invalid input validation.
// It is used for request parameter validation and configuration validation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
	// Cause is an optional sentinel the error wraps.
	Cause error
}

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	msg := fmt.Sprintf("validation error: %s", e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	if e.Value != nil {
		msg = fmt.Sprintf("%s (got %v)", msg, e.Value)
	}
	return msg
}

// Unwrap returns the sentinel wrapped by the validation error, if any.
func (e ValidationError) Unwrap() error { return e.Cause }

// NewValidationError creates a new ValidationError.
//
// Parameters:
//   - field: The name of the field that failed validation.
//   - message: A description of why validation failed.
//   - value: The invalid value (optional).
//
// Returns:
//   - error: A new ValidationError instance.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// NewInvalidCountError reports a term count that is negative or not an
// integer. The value is kept verbatim for the message.
func NewInvalidCountError(value any) error {
	return ValidationError{
		Field:   "n",
		Message: ErrInvalidCount.Error(),
		Value:   value,
		Cause:   ErrInvalidCount,
	}
}

// IsInvalidCount reports whether err is, or wraps, an InvalidCount error.
func IsInvalidCount(err error) bool {
	return errors.Is(err, ErrInvalidCount)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
