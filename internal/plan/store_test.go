package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/types"
)

func TestStoreAppendAdvancesCursor(t *testing.T) {
	t.Parallel()

	store := NewStore()
	require.Equal(t, 0, store.Cursor())

	store.Append(optimizedChunk("volume-001", item("a", 1), item("b", 2)))
	store.Append(optimizedChunk("volume-002", item("c", 3)))

	require.Equal(t, 2, store.Len())
	require.Equal(t, 3, store.Cursor())
	require.Equal(t, 0, store.Chunks()[0].Ordinal)
	require.Equal(t, 1, store.Chunks()[1].Ordinal)
}

func TestStoreTruncate(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(optimizedChunk("volume-001", item("a", 1), item("b", 2)))
	store.Append(optimizedChunk("volume-002", item("c", 3)))
	store.Append(optimizedChunk("volume-003", item("d", 4)))

	dropped := store.Truncate(1)
	require.Equal(t, 2, dropped)
	require.Equal(t, 1, store.Len())
	require.Equal(t, 2, store.Cursor())

	// Truncating beyond the current length is a no-op.
	require.Equal(t, 0, store.Truncate(5))
	require.Equal(t, 1, store.Len())

	require.Equal(t, 1, store.Truncate(-1))
	require.Equal(t, 0, store.Cursor())
}

func TestStoreNextSyncTargetOrderAndSkip(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(syncedChunk("volume-001", item("a", 1)))
	store.Append(optimizedChunk("volume-002", item("b", 2)))
	store.Append(optimizedChunk("volume-003", item("c", 3)))

	// Lowest ordinal needing sync wins.
	target := store.NextSyncTarget(nil)
	require.NotNil(t, target)
	require.Equal(t, 1, target.Ordinal)

	// A skipped (backoff-gated) chunk does not block later ordinals.
	target = store.NextSyncTarget(func(c *Chunk) bool { return c.Ordinal == 1 })
	require.NotNil(t, target)
	require.Equal(t, 2, target.Ordinal)

	// Hash drift on a synced chunk makes it a target again.
	store.Chunks()[0].ContentHash++
	target = store.NextSyncTarget(nil)
	require.Equal(t, 0, target.Ordinal)
}

func TestStoreCounts(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(syncedChunk("volume-001", item("a", 1)))
	store.Append(optimizedChunk("volume-002", item("b", 2)))

	dirty := &Chunk{Title: "volume-003", Items: []types.Item{item("c", 3)}, State: types.ChunkDirty}
	store.Append(dirty)

	require.Equal(t, 1, store.SyncedCount())
	require.Equal(t, 2, store.DirtyCount())
}

func TestStoreStateRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Append(syncedChunk("volume-001", item("a", 1), item("b", 2)))
	uploading := optimizedChunk("volume-002", item("c", 3))
	uploading.State = types.ChunkUploading
	store.Append(uploading)

	params := types.Parameters{CeilingMB: 14, SafetyMarginPercent: 5, CompressionLevel: types.CompressionMedium}
	state := store.State(params)

	restored := NewStore()
	restored.Restore(state)

	require.Equal(t, store.Len(), restored.Len())
	require.Equal(t, store.Cursor(), restored.Cursor())
	require.Equal(t, store.Chunks()[0].ContentHash, restored.Chunks()[0].ContentHash)
	require.Equal(t, store.Chunks()[0].LastSyncedHash, restored.Chunks()[0].LastSyncedHash)

	// An in-flight upload cannot resume after restart; it comes back Dirty.
	require.Equal(t, types.ChunkDirty, restored.Chunks()[1].State)
}

func TestStoreCheckInvariants(t *testing.T) {
	t.Parallel()

	a, b := item("a", 1), item("b", 2)

	store := NewStore()
	store.Append(optimizedChunk("volume-001", a))

	require.NoError(t, store.CheckInvariants([]types.Item{a, b}, 1<<20))

	// Mismatched coverage is reported.
	require.Error(t, store.CheckInvariants([]types.Item{b}, 1<<20))

	// A finalized multi-item chunk over the ceiling is reported.
	big := optimizedChunk("volume-002", a, b)
	big.SizeBytes = 4096
	store.Append(big)
	require.Error(t, store.CheckInvariants([]types.Item{a, a, b}, 2048))
}
