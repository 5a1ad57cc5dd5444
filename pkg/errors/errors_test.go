package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassification(t *testing.T) {
	cause := errors.New("dial tcp: timeout")

	unavailable := fmt.Errorf("lookup: %w", ErrServiceUnavailable.WithCause(cause))
	assert.True(t, IsServiceUnavailable(unavailable))
	assert.False(t, IsNotFound(unavailable))
	assert.ErrorIs(t, unavailable, cause)

	notFound := ErrNotFound.WithDetail("gstin", "29AADCB2230M1Z2")
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsServiceUnavailable(notFound))

	assert.False(t, IsValidation(cause))
	assert.Nil(t, Wrap(nil, ErrInternal))
}

func TestWithDetail_DoesNotMutateSentinel(t *testing.T) {
	_ = ErrNotFound.WithDetail("gstin", "x")
	assert.Empty(t, ErrNotFound.Details)
}

func TestToHTTPStatusAndResponse(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, ToHTTPStatus(ErrServiceUnavailable))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(errors.New("plain")))

	resp := ToErrorResponse(errors.New("plain"))
	assert.Equal(t, "INTERNAL_ERROR", resp["error_code"])
	assert.Equal(t, "internal server error", resp["error"])
}

func TestRecoverPanic(t *testing.T) {
	assert.Nil(t, RecoverPanic(nil))

	err := RecoverPanic("boom")
	require.Error(t, err)
	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	assert.Equal(t, true, appErr.Details["panic"])
	assert.Contains(t, err.Error(), "panic: boom")
}
