// ABOUTME: Error kinds shared across the tool.
// ABOUTME: Validation errors are never persisted; external errors are retryable.
package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing required field.
// It is returned before any write happens, so a failed validation
// never leaves a partial record behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ExternalServiceError reports a failure from a network collaborator
// (transcription, parsing, Garmin sync). These are recoverable: the user
// may retry or fall back to typed input. The store is never touched.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// IsExternal reports whether err is (or wraps) an ExternalServiceError.
func IsExternal(err error) bool {
	var ee *ExternalServiceError
	return errors.As(err, &ee)
}
