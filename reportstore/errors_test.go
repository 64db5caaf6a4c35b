package reportstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "slow" }
func (timeoutErr) Timeout() bool { return true }

func TestWrapHelpers_Nil(t *testing.T) {
	assert.NoError(t, WrapWriteError(nil, "p"))
	assert.NoError(t, WrapReadError(nil, "p"))
	assert.NoError(t, WrapInitError(nil, "p"))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{timeoutErr{}, ErrTimeout},
		{context.DeadlineExceeded, ErrTimeout},
		{errors.New("NoSuchKey: key does not exist"), ErrNotFound},
		{errors.New("ExpiredToken: token expired"), ErrAuth},
		{errors.New("lookup bucket: no such host"), ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.ErrorIs(t, classifyError(tt.err), tt.want)
		})
	}
}

func TestStorageError_Message(t *testing.T) {
	err := NewStorageError(ErrNotFound, "read", "a.json", errors.New("missing"))
	assert.Equal(t, "read a.json: not found: missing", err.Error())

	err = NewStorageError(ErrNetwork, "list", "", errors.New("down"))
	assert.Equal(t, "list: network error: down", err.Error())

	wrapped := WrapWriteError(errors.New("disk full"), "x")
	require.ErrorIs(t, wrapped, ErrDiskFull)
}
