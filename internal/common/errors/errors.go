// Package errors provides the structured error type returned across the API.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	ErrCodeStoreNotFound  ErrorCode = "STORE_NOT_FOUND"
	ErrCodeStoreMalformed ErrorCode = "STORE_MALFORMED"
	ErrCodeReloadFailed   ErrorCode = "RELOAD_FAILED"

	ErrCodeFirmNotFound   ErrorCode = "FIRM_NOT_FOUND"
	ErrCodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeInvalidQuery   ErrorCode = "INVALID_QUERY"

	ErrCodeRefreshFailed   ErrorCode = "REFRESH_FAILED"
	ErrCodeRefreshThrottle ErrorCode = "REFRESH_THROTTLED"

	ErrCodeDanglingReference ErrorCode = "DANGLING_REFERENCE"

	ErrCodeCacheUnavailable  ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeIndexUnavailable  ErrorCode = "INDEX_UNAVAILABLE"
	ErrCodeLedgerUnavailable ErrorCode = "LEDGER_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewStoreNotFoundError reports a store file that does not exist.
func NewStoreNotFoundError(collection, path string) *StandardError {
	return newError(ErrCodeStoreNotFound,
		fmt.Sprintf("%s data file not found", collection),
		fmt.Sprintf("path: %s", path), false, nil)
}

// NewStoreMalformedError reports a store file that could not be decoded or
// failed schema validation.
func NewStoreMalformedError(collection string, err error) *StandardError {
	return newError(ErrCodeStoreMalformed,
		fmt.Sprintf("%s data file is malformed", collection),
		err.Error(), false, err)
}

// NewReloadFailedError wraps a reload error.
func NewReloadFailedError(err error) *StandardError {
	return newError(ErrCodeReloadFailed, "Reload failed", err.Error(), true, err)
}

// NewFirmNotFoundError is returned when a firm has neither metadata nor
// portfolio companies.
func NewFirmNotFoundError(firm string) *StandardError {
	return newError(ErrCodeFirmNotFound, "Firm not found",
		fmt.Sprintf("firm: %s", firm), false, nil)
}

// NewRecordNotFoundError is the generic lookup miss.
func NewRecordNotFoundError(message, details string) *StandardError {
	return newError(ErrCodeRecordNotFound, message, details, false, nil)
}

func NewInvalidQueryError(details string) *StandardError {
	return newError(ErrCodeInvalidQuery, "Invalid query", details, false, nil)
}

func NewRefreshFailedError(target string, err error) *StandardError {
	return newError(ErrCodeRefreshFailed,
		fmt.Sprintf("Refresh of %s failed", target), err.Error(), true, err)
}

func NewRefreshThrottledError(target string) *StandardError {
	return newError(ErrCodeRefreshThrottle,
		fmt.Sprintf("Refresh of %s is already running or was run too recently", target),
		"", true, nil)
}

// NewDanglingReferenceError is used when an integrity check is turned into a
// hard failure.
func NewDanglingReferenceError(count int) *StandardError {
	return newError(ErrCodeDanglingReference,
		"Dangling firm references found",
		fmt.Sprintf("count: %d", count), false, nil)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", err.Error(), true, err)
}

func NewIndexUnavailableError(err error) *StandardError {
	details := "search index is not configured"
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodeIndexUnavailable, "Search index unavailable", details, true, err)
}

func NewLedgerUnavailableError(err error) *StandardError {
	details := "reload ledger is not configured"
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodeLedgerUnavailable, "Reload ledger unavailable", details, true, err)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, err.Error(), "", false, err)
}
