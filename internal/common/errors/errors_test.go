// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_Error(t *testing.T) {
	err := New(ErrCodeQueryExecutionFailed, "query schedule rows", "connection refused", true)
	assert.Equal(t, "QUERY_EXECUTION_FAILED: query schedule rows (connection refused)", err.Error())

	noDetails := New(ErrCodeInvalidInvocation, "testEmail is required", "", false)
	assert.Equal(t, "INVALID_INVOCATION: testEmail is required", noDetails.Error())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := Wrap(ErrCodeDatabaseConnectionFailed, "connect to postgres", cause, true)

	assert.Equal(t, ErrCodeDatabaseConnectionFailed, err.Code)
	assert.Equal(t, "dial tcp: connection refused", err.Details)
	assert.True(t, err.Retryable)
	assert.False(t, err.Timestamp.IsZero())
}

func TestWrap_NilCause(t *testing.T) {
	err := Wrap(ErrCodeDispatchFailed, "dispatch", nil, false)
	assert.Empty(t, err.Details)
}

func TestCodeOf(t *testing.T) {
	err := New(ErrCodeProviderSendFailed, "send", "", true)
	assert.Equal(t, ErrCodeProviderSendFailed, CodeOf(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, ErrCodeProviderSendFailed, CodeOf(wrapped))

	assert.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeQueryTimeout, "timeout", "", true)))
	assert.False(t, IsRetryable(New(ErrCodeInvalidInvocation, "bad input", "", false)))
	assert.False(t, IsRetryable(stderrors.New("plain")))
}
