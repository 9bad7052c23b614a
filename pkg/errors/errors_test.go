package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeInvalidParam:         http.StatusBadRequest,
		CodeTokenExpired:         http.StatusUnauthorized,
		CodePermissionDenied:     http.StatusForbidden,
		CodeRoomNotFound:         http.StatusNotFound,
		CodeReportExists:         http.StatusConflict,
		CodeRoomBusy:             http.StatusConflict,
		CodeInsufficientData:     http.StatusUnprocessableEntity,
		CodeClassificationFailed: http.StatusBadGateway,
		CodeGenerationFailed:     http.StatusBadGateway,
		CodeContextNotFound:      http.StatusInternalServerError,
		CodeUnknown:              http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, "code %s", code)
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, New(CodeClassificationFailed, "x").Retryable)
	assert.True(t, New(CodeGenerationFailed, "x").Retryable)
	assert.True(t, New(CodeConcurrentTurn, "x").Retryable)
	assert.False(t, New(CodeReportExists, "x").Retryable)
	assert.False(t, New(CodeInsufficientData, "x").Retryable)
	assert.False(t, New(CodeContextNotFound, "x").Retryable)
}

func TestAsAppError(t *testing.T) {
	base := New(CodeRoomNotFound, "room not found")
	wrapped := fmt.Errorf("load room: %w", base)

	require.True(t, IsAppError(wrapped))
	assert.Same(t, base, AsAppError(wrapped))

	plain := AsAppError(fmt.Errorf("boom"))
	assert.Equal(t, CodeUnknown, plain.Code)
	assert.EqualError(t, plain, "[1000] unknown error: boom")
}

func TestWithFields(t *testing.T) {
	err := New(CodeInsufficientData, "not enough").WithFields("work_done", "blockers")
	assert.Equal(t, []string{"work_done", "blockers"}, err.Fields)
}

func TestWithHelpers_DoNotMutateShared(t *testing.T) {
	detailed := ErrTokenInvalid.WithDetail("bad signature")
	assert.Equal(t, "bad signature", detailed.Detail)
	assert.Empty(t, ErrTokenInvalid.Detail)

	withErr := ErrInternalError.WithError(fmt.Errorf("db down"))
	assert.ErrorContains(t, withErr, "db down")
	assert.Nil(t, ErrInternalError.Err)
}
