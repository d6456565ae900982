package errors

import (
	stderrors "errors"
	"net/http"
)

var statusMapping = map[ErrorCode]int{
	ErrCodeStoreNotFound:     http.StatusNotFound,
	ErrCodeStoreMalformed:    http.StatusInternalServerError,
	ErrCodeReloadFailed:      http.StatusInternalServerError,
	ErrCodeFirmNotFound:      http.StatusNotFound,
	ErrCodeRecordNotFound:    http.StatusNotFound,
	ErrCodeInvalidQuery:      http.StatusBadRequest,
	ErrCodeRefreshFailed:     http.StatusInternalServerError,
	ErrCodeRefreshThrottle:   http.StatusTooManyRequests,
	ErrCodeDanglingReference: http.StatusConflict,
	ErrCodeCacheUnavailable:  http.StatusServiceUnavailable,
	ErrCodeIndexUnavailable:  http.StatusServiceUnavailable,
	ErrCodeLedgerUnavailable: http.StatusServiceUnavailable,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// HTTPStatus maps an error code to its response status. Unknown codes map
// to 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := statusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Normalize returns err as a StandardError, wrapping anything else as an
// internal error.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsRetryable reports whether the error is marked retryable.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}
