package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeFirmNotFound, http.StatusNotFound},
		{ErrCodeStoreNotFound, http.StatusNotFound},
		{ErrCodeRecordNotFound, http.StatusNotFound},
		{ErrCodeInvalidQuery, http.StatusBadRequest},
		{ErrCodeRefreshThrottle, http.StatusTooManyRequests},
		{ErrCodeStoreMalformed, http.StatusInternalServerError},
		{ErrCodeIndexUnavailable, http.StatusServiceUnavailable},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.code))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
	})

	t.Run("standard error passes through wrapping", func(t *testing.T) {
		orig := NewFirmNotFoundError("Nordic Capital")
		wrapped := fmt.Errorf("firm detail: %w", orig)

		got := Normalize(wrapped)
		require.NotNil(t, got)
		assert.Same(t, orig, got)
		assert.Equal(t, "Firm not found", got.Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := Normalize(stderrors.New("disk on fire"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "disk on fire", got.Message)
	})
}

func TestStandardError_UnwrapAndCodes(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := NewStoreMalformedError("portfolio", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, ErrCodeStoreMalformed))
	assert.False(t, IsCode(err, ErrCodeStoreNotFound))
	assert.False(t, IsRetryable(err))
	assert.True(t, IsRetryable(NewReloadFailedError(cause)))
	assert.Contains(t, err.Error(), "STORE_MALFORMED")
}

func TestWithMetadata(t *testing.T) {
	err := NewStoreNotFoundError("portfolio", "data/portfolio_enriched.json").
		WithMetadata("collection", "portfolio")

	assert.Equal(t, "portfolio", err.Metadata["collection"])
	assert.Equal(t, "path: data/portfolio_enriched.json", err.Details)
}
