package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for common provider failures.
var (
	// ErrModelUnavailable means the model endpoint could not be reached or is down.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInvalidResponse means the endpoint answered with something unusable.
	ErrInvalidResponse = errors.New("invalid model response")
)

// ErrorCode represents a provider error code.
type ErrorCode string

const (
	ErrorCodeContextLength  ErrorCode = "context_length_exceeded"
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeInvalidModel   ErrorCode = "invalid_model"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeTimeout        ErrorCode = "timeout"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeInvalidResp    ErrorCode = "invalid_response"
)

// ProviderError wraps errors with additional context.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// Is matches the sentinel that corresponds to the error code.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrModelUnavailable:
		switch e.Code {
		case ErrorCodeNetwork, ErrorCodeTimeout, ErrorCodeUnavailable:
			return true
		}
	case ErrInvalidResponse:
		return e.Code == ErrorCodeInvalidResp
	}
	return false
}

// IsUnavailable reports whether err means the model could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrModelUnavailable)
}
