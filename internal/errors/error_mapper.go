package errors

import (
	"errors"
	"net/http"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()
	mapped := func(userMessage, code string, status int) *AppError {
		return NewAppError(technicalMessage, userMessage, code, status, err)
	}

	switch {
	case errors.Is(err, ErrInvalidParameters):
		return mapped(MsgInvalidParameters, ErrCodeInvalidParameters, http.StatusBadRequest)
	case errors.Is(err, ErrValidation):
		return mapped(MsgValidation, ErrCodeValidation, http.StatusUnprocessableEntity)
	case errors.Is(err, ErrPropertyNotFound):
		return mapped(MsgPropertyNotFound, ErrCodePropertyNotFound, http.StatusNotFound)
	case errors.Is(err, ErrUnauthorized):
		return mapped(MsgUnauthorized, ErrCodeUnauthorized, http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		return mapped(MsgForbidden, ErrCodeForbidden, http.StatusForbidden)
	case errors.Is(err, ErrRateLimited):
		return mapped(MsgRateLimited, ErrCodeRateLimited, http.StatusTooManyRequests)
	case errors.Is(err, ErrDatastore):
		return mapped(MsgDatastore, ErrCodeServiceUnavailable, http.StatusInternalServerError)
	default:
		return mapped(MsgInternalError, ErrCodeInternal, http.StatusInternalServerError)
	}
}
