package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	first := ErrInvalidTicket.WithDetail("violation text is required")
	second := ErrInvalidTicket.WithDetail("jurisdiction is required")

	// 预定义错误保持干净，两个派生副本互不影响
	assert.Empty(t, ErrInvalidTicket.Detail)
	assert.Equal(t, "violation text is required", first.Detail)
	assert.Equal(t, "jurisdiction is required", second.Detail)
	assert.Equal(t, ErrInvalidTicket.Code, first.Code)
	assert.Equal(t, ErrInvalidTicket.HTTPStatus, second.HTTPStatus)
}

func TestWithErrorDoesNotMutateSentinel(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	derived := ErrCatalogError.WithError(cause)

	assert.Nil(t, ErrCatalogError.Err)
	assert.ErrorIs(t, derived, cause)
	assert.Equal(t, CodeCatalogError, derived.Code)
}

func TestAsAppErrorNeverNil(t *testing.T) {
	appErr := AsAppError(fmt.Errorf("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, CodeUnknown, appErr.Code)

	wrapped := fmt.Errorf("outer: %w", ErrQuotaExceeded)
	assert.Equal(t, CodeQuotaExceeded, AsAppError(wrapped).Code)
}

func TestCodeToHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidTicket, 400},
		{CodeQuotaExceeded, 429},
		{CodeTooManyRequests, 429},
		{CodeServiceUnavailable, 503},
		{CodeCatalogError, 500},
		{CodeUnknown, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.code, "x").HTTPStatus, string(tt.code))
	}
}
