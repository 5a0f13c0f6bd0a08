package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeConfig     = "CONFIG_ERROR"
)

// ErrTimeoutExpired is returned by message waiters when no qualifying message
// arrived before the deadline.
var ErrTimeoutExpired = stderrors.New("timeout expired")

// ErrStreamUnavailable is returned by message waiters when the event stream is
// not connected, or gave up reconnecting while the wait was pending.
var ErrStreamUnavailable = stderrors.New("event stream unavailable")

// ErrCircuitOpen is returned by the gateway client while the relay is considered down.
var ErrCircuitOpen = stderrors.New("gateway circuit open")

// BotError is the common shape of every typed error in this package.
type BotError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *BotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BotError) Unwrap() error {
	return e.Cause
}

type APIError struct {
	*BotError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// WithCause attaches the underlying error and keeps the APIError type.
func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

type ValidationError struct {
	*BotError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*BotError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// ConfigError reports a missing or invalid startup setting. It is fatal.
type ConfigError struct {
	*BotError
	Key string
}

func NewConfigError(message, key string) *ConfigError {
	return &ConfigError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeConfig,
			StatusCode: 500,
			Context: map[string]any{
				"key": key,
			},
		},
		Key: key,
	}
}
