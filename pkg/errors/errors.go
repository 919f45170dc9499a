package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Graph errors
	ErrorTypeInvalidReference ErrorType = "INVALID_REFERENCE"
	ErrorTypeDuplicateID      ErrorType = "DUPLICATE_ID"
	ErrorTypeValidation       ErrorType = "VALIDATION"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"

	// Session errors
	ErrorTypePromptPending ErrorType = "PROMPT_PENDING"
	ErrorTypeCancelled     ErrorType = "CANCELLED"
	ErrorTypeTimeout       ErrorType = "TIMEOUT"
	ErrorTypeLimit         ErrorType = "LIMIT"

	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a single detail entry
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewInvalidReferenceError reports an edge endpoint that does not resolve to a node
func NewInvalidReferenceError(role, nodeID string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidReference,
		Message:    fmt.Sprintf("%s node %q does not exist", role, nodeID),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewDuplicateIDError reports an id collision
func NewDuplicateIDError(kind, id string) *AppError {
	return &AppError{
		Type:       ErrorTypeDuplicateID,
		Message:    fmt.Sprintf("%s id %q is already in use", kind, id),
		HTTPStatus: http.StatusConflict,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewPromptPendingError is returned while another prompt is being applied
func NewPromptPendingError() *AppError {
	return &AppError{
		Type:       ErrorTypePromptPending,
		Message:    "a prompt is already being processed",
		HTTPStatus: http.StatusConflict,
	}
}

// NewCancelledError creates a cancellation error
func NewCancelledError(operation string) *AppError {
	return &AppError{
		Type:       ErrorTypeCancelled,
		Message:    fmt.Sprintf("operation '%s' was cancelled", operation),
		HTTPStatus: http.StatusRequestTimeout,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(operation string) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    fmt.Sprintf("operation '%s' timed out", operation),
		HTTPStatus: http.StatusRequestTimeout,
	}
}

// NewLimitError creates a capacity error
func NewLimitError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeLimit,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// FromContext converts a context error into a cancellation or timeout error.
func FromContext(operation string, err error) *AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(operation).WithCause(err)
	}
	return NewCancelledError(operation).WithCause(err)
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsInvalidReference checks if an error is an invalid reference error
func IsInvalidReference(err error) bool {
	return IsType(err, ErrorTypeInvalidReference)
}

// IsDuplicateID checks if an error is a duplicate id error
func IsDuplicateID(err error) bool {
	return IsType(err, ErrorTypeDuplicateID)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsPromptPending checks if an error is a prompt pending error
func IsPromptPending(err error) bool {
	return IsType(err, ErrorTypePromptPending)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return IsType(err, ErrorTypeCancelled)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		wrapped := *appErr
		wrapped.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return &wrapped
	}

	return NewInternalError(message).WithCause(err)
}
