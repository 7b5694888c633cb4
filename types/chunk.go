package types

// ChunkState represents the synchronization lifecycle state of a chunk.
//
// States follow a defined progression during normal operation:
//
//	ChunkPending → ChunkOptimized → ChunkUploading → ChunkSynced
//
// On upload failure:
//
//	ChunkUploading → ChunkDirty (retry eligible)
//
// A ChunkSynced chunk whose content hash drifts from its last synced hash is
// treated as ChunkDirty and re-uploaded. Revalidation may discard a chunk in
// any state and rebuild it from ChunkPending.
type ChunkState int

const (
	// ChunkPending indicates the chunk is being packed and has no verified size yet.
	ChunkPending ChunkState = iota

	// ChunkOptimized indicates packing finalized the chunk; it awaits upload.
	ChunkOptimized

	// ChunkUploading indicates an upload of the chunk's artifact is in flight.
	ChunkUploading

	// ChunkSynced indicates the persisted artifact matches the chunk's content hash.
	ChunkSynced

	// ChunkDirty indicates the last upload failed or the content hash drifted
	// since the last successful upload. The chunk is retried on later passes.
	ChunkDirty
)

// String returns the string representation of the chunk state.
func (s ChunkState) String() string {
	switch s {
	case ChunkPending:
		return "Pending"
	case ChunkOptimized:
		return "Optimized"
	case ChunkUploading:
		return "Uploading"
	case ChunkSynced:
		return "Synced"
	case ChunkDirty:
		return "Dirty"
	default:
		return "Unknown"
	}
}

// ChunkInfo is a read-only snapshot of one output volume in packing order.
//
// Snapshots are value copies; mutating one has no effect on the engine.
type ChunkInfo struct {
	// Ordinal is the zero-based position of the chunk in output order.
	Ordinal int `json:"ordinal"`

	// Title is the human-readable volume title, derived from the configured
	// title pattern. It also determines the uploaded artifact's filename.
	Title string `json:"title"`

	// ItemIDs lists the IDs of the items packed into this chunk, in order.
	ItemIDs []string `json:"itemIds"`

	// SizeBytes is the measured (or best-known estimated) assembled size.
	SizeBytes int64 `json:"sizeBytes"`

	// State is the chunk's current synchronization lifecycle state.
	State ChunkState `json:"state"`

	// ContentHash is a deterministic digest of the chunk's item identities,
	// fingerprints, and order. Equal hashes guarantee byte-identical
	// assembled output for the same assembler and compression level.
	ContentHash uint64 `json:"contentHash"`

	// Optimized is true when every item in the chunk was sized with its
	// current compression level (no raw-size fallback was needed).
	Optimized bool `json:"optimized"`

	// Oversized is true when the chunk holds a single item whose assembled
	// size alone exceeds the ceiling. Such chunks are accepted rather than
	// blocking progress.
	Oversized bool `json:"oversized"`
}

// Synced reports whether the chunk's persisted artifact is up to date.
func (c ChunkInfo) Synced() bool {
	return c.State == ChunkSynced
}

// Progress summarizes how far packing and synchronization have advanced.
type Progress struct {
	// PackedItems is the number of items covered by finalized chunks (the cursor).
	PackedItems int `json:"packedItems"`

	// TotalItems is the current length of the item sequence.
	TotalItems int `json:"totalItems"`

	// SyncedChunks is the number of chunks in the Synced state.
	SyncedChunks int `json:"syncedChunks"`

	// TotalChunks is the number of chunks in the store.
	TotalChunks int `json:"totalChunks"`
}

// FullyPacked reports whether every item is covered by a finalized chunk.
func (p Progress) FullyPacked() bool {
	return p.PackedItems == p.TotalItems
}

// FullySynced reports whether packing is complete and every chunk is synced.
func (p Progress) FullySynced() bool {
	return p.FullyPacked() && p.SyncedChunks == p.TotalChunks
}
