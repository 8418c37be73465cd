package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapErrorPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = WithLogRequestID(ctx, "req")

	err := WrapError(ctx, errors.New("boom"))
	require.EqualError(t, err, "boom")

	ctx2 := ErrorCtx(context.Background(), err)
	value, ok := ctx2.Value(key).(logCtx)
	require.True(t, ok)
	require.Equal(t, "req", value.RequestID)
}

func TestWrapErrorKeepsSentinelAndScope(t *testing.T) {
	sentinel := errors.New("storage write failed")
	ctx := WithLogSprintID(WithLogJobKind(context.Background(), "sprint"), "s1")

	err := WrapError(ctx, sentinel)
	require.ErrorIs(t, err, sentinel)

	value, ok := ErrorCtx(context.Background(), err).Value(key).(logCtx)
	require.True(t, ok)
	require.Equal(t, "sprint", value.JobKind)
	require.Equal(t, "s1", value.SprintID)

	plain := context.Background()
	require.Equal(t, plain, ErrorCtx(plain, sentinel))
}
