package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a simulation run did not produce a result.
type ErrorKind string

const (
	KindConfiguration          ErrorKind = "configuration"
	KindEngineNotFound         ErrorKind = "engine_not_found"
	KindTimeout                ErrorKind = "timeout"
	KindProcessFailedOpaque    ErrorKind = "process_failed_opaque"
	KindProcessFailedMalformed ErrorKind = "process_failed_malformed_output"
	KindMalformedSuccessOutput ErrorKind = "malformed_success_output"
	KindEngineReportedError    ErrorKind = "engine_reported_error"
	KindResultProcessing       ErrorKind = "result_processing"
)

// RunError is the single error type returned by the simulation pipeline.
// ExitCode, Stdout and Stderr are set for the kinds that come from a finished
// engine process.
type RunError struct {
	Kind     ErrorKind
	Message  string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *RunError) Error() string {
	switch e.Kind {
	case KindProcessFailedOpaque, KindProcessFailedMalformed:
		return fmt.Sprintf("%s: %s (exit code %d)", e.Kind, e.Message, e.ExitCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// NewConfigurationError reports a configuration that cannot be turned into an
// engine invocation.
func NewConfigurationError(format string, args ...any) *RunError {
	return &RunError{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind of the first RunError in err's chain, or "" if
// there is none.
func KindOf(err error) ErrorKind {
	var re *RunError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrInternal       ErrorCode = "INTERNAL_ERROR"
	ErrEngineNotFound ErrorCode = "ENGINE_NOT_FOUND"
	ErrTimeout        ErrorCode = "TIMEOUT"
	ErrEngine         ErrorCode = "ENGINE_ERROR"
)

// APIError is a structured error returned by the probsched API.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Kind    ErrorKind    `json:"kind,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes a problem with a specific field or engine stream.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}
