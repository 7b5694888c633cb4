package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/types"
)

func TestNewNopCallbacksSucceed(t *testing.T) {
	t.Parallel()

	h := NewNop()
	ctx := context.Background()

	require.NoError(t, h.OnChunkFinalized(ctx, types.ChunkInfo{}))
	require.NoError(t, h.OnChunkStateChanged(ctx, 0, types.ChunkOptimized, types.ChunkSynced))
	require.NoError(t, h.OnPlanInvalidated(ctx, 1, 2))
	require.NoError(t, h.OnError(ctx, errors.New("ignored")))
}

func TestFillPreservesCustomCallbacks(t *testing.T) {
	t.Parallel()

	called := false
	h := Fill(types.Hooks{
		OnChunkFinalized: func(_ context.Context, _ types.ChunkInfo) error {
			called = true

			return nil
		},
	})

	require.NoError(t, h.OnChunkFinalized(context.Background(), types.ChunkInfo{}))
	require.True(t, called)

	// Unset callbacks are filled with no-ops, not left nil.
	require.NotNil(t, h.OnChunkStateChanged)
	require.NotNil(t, h.OnPlanInvalidated)
	require.NotNil(t, h.OnError)
	require.NoError(t, h.OnError(context.Background(), errors.New("ignored")))
}
