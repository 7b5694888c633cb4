// Package plan implements the bin-packing core: the chunk store, the
// estimate-then-verify partitioner, and prefix-based incremental
// revalidation.
package plan

import (
	"github.com/bjud-in-oss/bindery/internal/fingerprint"
	"github.com/bjud-in-oss/bindery/types"
)

// Chunk is the engine-owned, mutable representation of one output volume.
//
// Chunks are created by the Partitioner, mutated in place as sync state
// changes, and discarded wholesale when revalidation determines they are
// stale. Only the scheduler goroutine may mutate a chunk; readers receive
// value snapshots via Info().
type Chunk struct {
	// Ordinal is the zero-based position in output order.
	Ordinal int

	// Title is the volume title, derived from the configured title pattern.
	Title string

	// Items is the contiguous sub-sequence of the input packed into this
	// chunk, in order. The slice is owned by the chunk.
	Items []types.Item

	// SizeBytes is the measured assembled size, or the best-known estimate
	// when assembly has not succeeded yet.
	SizeBytes int64

	// State is the synchronization lifecycle state.
	State types.ChunkState

	// ContentHash is the deterministic digest of item identities,
	// fingerprints, and order (see internal/fingerprint).
	ContentHash uint64

	// LastSyncedHash is the content hash of the artifact most recently
	// uploaded successfully, or 0 if never uploaded.
	LastSyncedHash uint64

	// Optimized is true when every item was sized at its current
	// compression level without raw-size fallback.
	Optimized bool

	// Oversized is true for a single-item chunk whose assembled size alone
	// exceeds the ceiling.
	Oversized bool
}

// Placeholder returns the empty chunk packed for an empty input sequence, so
// a session with no items still produces and syncs one empty volume.
// Revalidation drops the placeholder as soon as real items arrive.
func Placeholder(title string, level types.CompressionLevel) *Chunk {
	return &Chunk{
		Title:       title,
		State:       types.ChunkOptimized,
		ContentHash: fingerprint.Chunk(nil, title, level),
		Optimized:   true,
	}
}

// NeedsSync reports whether the chunk's persisted artifact is missing or out
// of date. A Synced chunk whose content hash drifted from its last synced
// hash (e.g. after recompression) needs sync again; this is the idempotence
// guard.
func (c *Chunk) NeedsSync() bool {
	switch c.State {
	case types.ChunkOptimized, types.ChunkDirty:
		return true
	case types.ChunkSynced:
		return c.ContentHash != c.LastSyncedHash
	default:
		return false
	}
}

// Info returns a read-only value snapshot of the chunk.
func (c *Chunk) Info() types.ChunkInfo {
	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ID
	}

	return types.ChunkInfo{
		Ordinal:     c.Ordinal,
		Title:       c.Title,
		ItemIDs:     ids,
		SizeBytes:   c.SizeBytes,
		State:       c.State,
		ContentHash: c.ContentHash,
		Optimized:   c.Optimized,
		Oversized:   c.Oversized,
	}
}

// Record returns the serializable form of the chunk for persistence.
func (c *Chunk) Record() types.ChunkRecord {
	items := make([]types.Item, len(c.Items))
	copy(items, c.Items)

	state := c.State
	if state == types.ChunkUploading {
		// An in-flight upload cannot be resumed across restarts.
		state = types.ChunkDirty
	}

	return types.ChunkRecord{
		Ordinal:        c.Ordinal,
		Title:          c.Title,
		Items:          items,
		SizeBytes:      c.SizeBytes,
		State:          state,
		ContentHash:    c.ContentHash,
		LastSyncedHash: c.LastSyncedHash,
		Optimized:      c.Optimized,
		Oversized:      c.Oversized,
	}
}

// FromRecord reconstructs a chunk from its persisted form.
func FromRecord(rec types.ChunkRecord) *Chunk {
	items := make([]types.Item, len(rec.Items))
	copy(items, rec.Items)

	return &Chunk{
		Ordinal:        rec.Ordinal,
		Title:          rec.Title,
		Items:          items,
		SizeBytes:      rec.SizeBytes,
		State:          rec.State,
		ContentHash:    rec.ContentHash,
		LastSyncedHash: rec.LastSyncedHash,
		Optimized:      rec.Optimized,
		Oversized:      rec.Oversized,
	}
}
