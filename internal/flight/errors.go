package flight

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeValidation      ErrorCode = "VALIDATION"
	ErrorCodeAuthFailed      ErrorCode = "AUTH_FAILED"
	ErrorCodeRateLimited     ErrorCode = "RATE_LIMITED"
	ErrorCodeTimeout         ErrorCode = "TIMEOUT"
	ErrorCodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	ErrorCodeInternalFailure ErrorCode = "INTERNAL_FAILURE"
)

// AppError carries the HTTP status and machine code a failure maps to.
type AppError struct {
	Status  int       `json:"-"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"error"`
	Field   string    `json:"field,omitempty"`
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports malformed input, naming the offending field.
func NewValidationError(field, msg string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    ErrorCodeValidation,
		Message: msg,
		Field:   field,
	}
}

// NewAuthError reports a failed upstream credential exchange.
func NewAuthError(upstreamStatus int, msg string) *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    ErrorCodeAuthFailed,
		Message: fmt.Sprintf("authentication with flight provider failed (upstream status %d): %s", upstreamStatus, msg),
	}
}

// NewRateLimitedError reports rejection by the local quota or upstream 429.
func NewRateLimitedError(msg string) *AppError {
	return &AppError{
		Status:  http.StatusTooManyRequests,
		Code:    ErrorCodeRateLimited,
		Message: msg,
	}
}

// NewTimeoutError reports an upstream attempt exceeding its deadline.
func NewTimeoutError(msg string) *AppError {
	return &AppError{
		Status:  http.StatusGatewayTimeout,
		Code:    ErrorCodeTimeout,
		Message: msg,
	}
}

// NewUpstreamError reports a non-retryable upstream rejection, surfacing
// the detail extracted from the provider's error envelope.
func NewUpstreamError(detail string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    ErrorCodeUpstreamFailure,
		Message: detail,
	}
}

// NewInternalError reports an unexpected failure. The underlying detail is
// kept out of the message; handlers log it instead.
func NewInternalError() *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    ErrorCodeInternalFailure,
		Message: "internal server error",
	}
}
