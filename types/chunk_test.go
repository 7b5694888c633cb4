package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state ChunkState
		want  string
	}{
		{ChunkPending, "Pending"},
		{ChunkOptimized, "Optimized"},
		{ChunkUploading, "Uploading"},
		{ChunkSynced, "Synced"},
		{ChunkDirty, "Dirty"},
		{ChunkState(99), "Unknown"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.state.String())
	}
}

func TestChunkInfoSynced(t *testing.T) {
	t.Parallel()

	require.True(t, ChunkInfo{State: ChunkSynced}.Synced())
	require.False(t, ChunkInfo{State: ChunkDirty}.Synced())
	require.False(t, ChunkInfo{State: ChunkOptimized}.Synced())
}

func TestProgress(t *testing.T) {
	t.Parallel()

	p := Progress{PackedItems: 3, TotalItems: 5, SyncedChunks: 1, TotalChunks: 1}
	require.False(t, p.FullyPacked())
	require.False(t, p.FullySynced())

	p.PackedItems = 5
	require.True(t, p.FullyPacked())
	require.True(t, p.FullySynced())

	p.TotalChunks = 2
	require.True(t, p.FullyPacked())
	require.False(t, p.FullySynced())
}
