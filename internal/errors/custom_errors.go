package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap them with fmt.Errorf("...: %w", ErrX) so MapError can
// classify the failure.
var (
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrValidation        = errors.New("validation failed")
	ErrPropertyNotFound  = errors.New("property not found")
	ErrDatastore         = errors.New("datastore query failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("rate limited")
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Common error codes
const (
	ErrCodeInvalidParameters  = "INVALID_PARAMETERS"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodePropertyNotFound   = "PROPERTY_NOT_FOUND"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// IsNotFound reports whether err wraps ErrPropertyNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPropertyNotFound)
}
