// Package errors provides custom error types for the nutrimap system.
// Provider adapters, the reconciliation client and the HTTP server share
// these types so failures can be classified with errors.Is and errors.As
// regardless of which layer produced them.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// New, Is and As re-export the standard library so callers need one import.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

// Sentinels. The typed errors below match these through their Is methods,
// so callers classify with errors.Is and never by string.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrAPIKeyRequired      = errors.New("API key required")
	ErrAPIKeyInvalid       = errors.New("API key invalid")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrRateLimited         = errors.New("rate limited")
	ErrTimeout             = errors.New("operation timed out")
	ErrCanceled            = errors.New("operation canceled")

	// ErrSearchFailed is matched by every SearchError.
	ErrSearchFailed = errors.New("food search failed")
	// ErrDetailsFailed is matched by every DetailsFetchError.
	ErrDetailsFailed = errors.New("food details failed")
)

// User-facing messages. These are the only two error strings a session
// ever exposes; causes are logged, never shown.
const (
	SearchFailedMessage  = "Failed to search foods. Please try again."
	DetailsFailedMessage = "Failed to load food details. Please try again."
)

// NotFoundError reports a missing food, profile or journal resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError reports bad caller input. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError is a non-2xx provider response. The status code decides which
// sentinel it matches: 429 rate limited, 5xx unavailable, 401/403 invalid
// key and 404 not found.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrProviderUnavailable
	case e.StatusCode == 401 || e.StatusCode == 403:
		return target == ErrAPIKeyInvalid
	case e.StatusCode == 404:
		return target == ErrNotFound
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(provider string, statusCode int, message string) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError reports unusable configuration.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// SearchError is returned when a food search against the reference
// provider fails. UserMessage is safe to display.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

func (e *SearchError) Is(target error) bool {
	return target == ErrSearchFailed
}

// UserMessage returns the fixed message shown to end users.
func (e *SearchError) UserMessage() string {
	return SearchFailedMessage
}

// NewSearchError creates a new SearchError
func NewSearchError(query string, err error) *SearchError {
	return &SearchError{Query: query, Err: err}
}

// DetailsFetchError is returned when the reference record for a food
// could not be obtained, including by the fallback path.
type DetailsFetchError struct {
	FdcID int64
	Err   error
}

func (e *DetailsFetchError) Error() string {
	return fmt.Sprintf("details for food %d: %v", e.FdcID, e.Err)
}

func (e *DetailsFetchError) Unwrap() error {
	return e.Err
}

func (e *DetailsFetchError) Is(target error) bool {
	return target == ErrDetailsFailed
}

// UserMessage returns the fixed message shown to end users.
func (e *DetailsFetchError) UserMessage() string {
	return DetailsFailedMessage
}

// NewDetailsFetchError creates a new DetailsFetchError
func NewDetailsFetchError(fdcID int64, err error) *DetailsFetchError {
	return &DetailsFetchError{FdcID: fdcID, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAPIKeyError matches missing and rejected credentials.
func IsAPIKeyError(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired) || errors.Is(err, ErrAPIKeyInvalid)
}

func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled also matches context.Canceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// IsTransient reports whether retrying the same request could succeed:
// rate limiting, 5xx responses, timeouts and network failures.
// Cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || IsCanceled(err) {
		return false
	}
	if IsRateLimited(err) || IsProviderUnavailable(err) || IsTimeout(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// UserMessage returns the display-safe message carried by err, if any.
func UserMessage(err error) (string, bool) {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage(), true
	}
	return "", false
}
