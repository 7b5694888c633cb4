package plan

import (
	"fmt"

	"github.com/bjud-in-oss/bindery/types"
)

// Store holds the authoritative ordered chunk list and the optimization
// cursor.
//
// The cursor marks the first item index not yet covered by a finalized
// chunk. Invariant: cursor always equals the sum of item counts across all
// stored chunks, so the chunks form a gapless, non-overlapping prefix of the
// input sequence.
//
// Store is not safe for concurrent use; the session serializes access.
type Store struct {
	chunks []*Chunk
	cursor int
}

// NewStore creates an empty chunk store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Cursor returns the first item index not covered by a finalized chunk.
func (s *Store) Cursor() int {
	return s.cursor
}

// Chunks returns the underlying chunk slice. Callers must not reorder it.
func (s *Store) Chunks() []*Chunk {
	return s.chunks
}

// Append adds a finalized chunk and advances the cursor past its items.
// The chunk's ordinal is assigned by the store.
func (s *Store) Append(c *Chunk) {
	c.Ordinal = len(s.chunks)
	s.chunks = append(s.chunks, c)
	s.cursor += len(c.Items)
}

// Truncate keeps the first n chunks, drops the rest, and resets the cursor
// to the retained item count.
//
// Returns:
//   - int: Number of chunks dropped
func (s *Store) Truncate(n int) int {
	if n < 0 {
		n = 0
	}
	if n >= len(s.chunks) {
		return 0
	}

	dropped := len(s.chunks) - n
	s.chunks = s.chunks[:n]

	cursor := 0
	for _, c := range s.chunks {
		cursor += len(c.Items)
	}
	s.cursor = cursor

	return dropped
}

// NextSyncTarget returns the lowest-ordinal chunk that needs uploading, or
// nil when every chunk is up to date. Uploads proceed in ascending ordinal
// order, though a failing earlier chunk does not block later ones: the
// caller skips chunks whose retry backoff has not elapsed.
func (s *Store) NextSyncTarget(skip func(*Chunk) bool) *Chunk {
	for _, c := range s.chunks {
		if !c.NeedsSync() {
			continue
		}
		if skip != nil && skip(c) {
			continue
		}

		return c
	}

	return nil
}

// SyncedCount returns the number of chunks whose artifact is up to date.
func (s *Store) SyncedCount() int {
	n := 0
	for _, c := range s.chunks {
		if c.State == types.ChunkSynced && !c.NeedsSync() {
			n++
		}
	}

	return n
}

// DirtyCount returns the number of chunks awaiting upload or retry.
func (s *Store) DirtyCount() int {
	n := 0
	for _, c := range s.chunks {
		if c.NeedsSync() {
			n++
		}
	}

	return n
}

// Snapshot returns read-only copies of all chunks in order.
func (s *Store) Snapshot() []types.ChunkInfo {
	infos := make([]types.ChunkInfo, len(s.chunks))
	for i, c := range s.chunks {
		infos[i] = c.Info()
	}

	return infos
}

// State captures the store as a serializable session snapshot.
func (s *Store) State(params types.Parameters) types.SessionState {
	recs := make([]types.ChunkRecord, len(s.chunks))
	for i, c := range s.chunks {
		recs[i] = c.Record()
	}

	return types.SessionState{
		Parameters: params,
		Cursor:     s.cursor,
		Chunks:     recs,
	}
}

// Restore replaces the store content from a persisted snapshot. The cursor
// is recomputed from the restored chunks rather than trusted from the
// snapshot, so a corrupted cursor cannot break the coverage invariant.
func (s *Store) Restore(state types.SessionState) {
	s.chunks = make([]*Chunk, len(state.Chunks))
	cursor := 0
	for i, rec := range state.Chunks {
		c := FromRecord(rec)
		c.Ordinal = i
		s.chunks[i] = c
		cursor += len(c.Items)
	}
	s.cursor = cursor
}

// CheckInvariants verifies the store against the given item sequence:
// gapless coverage in order, cursor consistency, and ceiling respect for
// finalized multi-item chunks. Used by tests and debug builds.
func (s *Store) CheckInvariants(items []types.Item, ceiling int64) error {
	offset := 0
	for i, c := range s.chunks {
		if c.Ordinal != i {
			return fmt.Errorf("chunk %d has ordinal %d", i, c.Ordinal)
		}
		for j, it := range c.Items {
			if offset+j >= len(items) {
				return fmt.Errorf("chunk %d extends past item sequence", i)
			}
			if items[offset+j].ID != it.ID {
				return fmt.Errorf("chunk %d item %d: got %q, sequence has %q", i, j, it.ID, items[offset+j].ID)
			}
		}
		if c.State != types.ChunkPending && len(c.Items) > 1 && c.SizeBytes > ceiling {
			return fmt.Errorf("chunk %d size %d exceeds ceiling %d", i, c.SizeBytes, ceiling)
		}
		offset += len(c.Items)
	}
	if s.cursor != offset {
		return fmt.Errorf("cursor %d != covered item count %d", s.cursor, offset)
	}

	return nil
}
