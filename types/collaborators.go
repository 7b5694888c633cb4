package types

import (
	"context"
	"errors"
)

// Compressor processes one item at a compression level and reports the exact
// processed byte size.
//
// Contract:
//   - Deterministic for the same (item, level) pair
//   - Idempotent; results may be cached by the caller keyed on (item ID, level)
//   - Failure is recoverable: the engine falls back to the item's raw size
//     and revisits the chunk on the next successful compression
type Compressor interface {
	// Process compresses the item at the given level and returns the exact
	// processed size in bytes.
	Process(ctx context.Context, item Item, level CompressionLevel) (int64, error)
}

// DocumentAssembler builds the output artifact for an ordered list of items
// and returns its exact bytes.
//
// Assembly is the expensive precision step of packing: the engine invokes it
// only when the estimated running total of a candidate chunk crosses the
// verify threshold, and once more per boundary adjustment.
//
// Contract:
//   - Deterministic given identical item fingerprints, order, title, and level
//   - Failure is recoverable; the engine retries the step on a later pass
type DocumentAssembler interface {
	// Assemble builds the artifact containing the items in order.
	Assemble(ctx context.Context, items []Item, title string, level CompressionLevel) ([]byte, error)
}

// CloudStore persists assembled artifacts in an external storage container.
//
// Upload is an upsert keyed by filename within a container and must be safely
// retryable: re-uploading identical content is a no-op effect-wise.
type CloudStore interface {
	// Upload stores data under filename inside the container, replacing any
	// previous artifact with the same name.
	Upload(ctx context.Context, containerID, filename string, data []byte) error

	// Exists returns the storage-assigned ID of the artifact with the given
	// filename, or "" if no such artifact exists.
	Exists(ctx context.Context, containerID, filename string) (string, error)
}

// ContentProvider resolves an item ID to the item's raw content bytes.
//
// The engine itself never touches content bytes; this interface is consumed
// by concrete Compressor and DocumentAssembler implementations.
type ContentProvider interface {
	// Content returns the raw bytes of the item with the given ID.
	Content(ctx context.Context, itemID string) ([]byte, error)
}

// SizeEstimator predicts an item's contribution to assembled output size
// without invoking the DocumentAssembler.
//
// Estimates are deliberately cheap and slightly pessimistic: the packer
// accumulates them during fast-fill and only pays for exact assembly once the
// running total crosses the verify threshold.
type SizeEstimator interface {
	// Estimate returns the predicted packaged size of the item in bytes at
	// the given compression level.
	Estimate(item Item, level CompressionLevel) int64
}

// ItemSource provides the ordered item sequence for a packing session.
type ItemSource interface {
	// Items returns the current ordered item sequence.
	Items(ctx context.Context) ([]Item, error)
}

// ErrNoState is returned by Persistence.Load when no snapshot has been saved yet.
var ErrNoState = errors.New("no persisted session state")

// ChunkRecord is the serializable form of one chunk. Raw artifact bytes are
// never persisted; they are recomputed from items on demand.
type ChunkRecord struct {
	Ordinal        int        `json:"ordinal" cbor:"1,keyasint"`
	Title          string     `json:"title" cbor:"2,keyasint"`
	Items          []Item     `json:"items" cbor:"3,keyasint"`
	SizeBytes      int64      `json:"sizeBytes" cbor:"4,keyasint"`
	State          ChunkState `json:"state" cbor:"5,keyasint"`
	ContentHash    uint64     `json:"contentHash" cbor:"6,keyasint"`
	LastSyncedHash uint64     `json:"lastSyncedHash" cbor:"7,keyasint"`
	Optimized      bool       `json:"optimized" cbor:"8,keyasint"`
	Oversized      bool       `json:"oversized" cbor:"9,keyasint"`
}

// SessionState is the serializable snapshot of a packing session: packing
// parameters, the optimization cursor, and the chunk records.
type SessionState struct {
	Parameters Parameters    `json:"parameters" cbor:"1,keyasint"`
	Cursor     int           `json:"cursor" cbor:"2,keyasint"`
	Chunks     []ChunkRecord `json:"chunks" cbor:"3,keyasint"`
}

// Persistence saves and restores session state across process restarts.
type Persistence interface {
	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, state SessionState) error

	// Load restores the most recent snapshot. Returns ErrNoState if nothing
	// has been saved yet.
	Load(ctx context.Context) (SessionState, error)
}
