package plan

import (
	"github.com/bjud-in-oss/bindery/types"
)

// Revalidate trims the store to the longest prefix of chunks still valid
// against the new item sequence.
//
// Chunks are walked in order against same-length slices of the new sequence.
// Every item must match on identity and content (fingerprint plus
// compression cache state). The first mismatching chunk and everything after
// it are dropped; chunks before the mismatch are kept untouched, including
// their sync state, so an edit to item N only re-packs chunks from the one
// containing N onward.
//
// If every chunk validates but the final chunk has not been synced yet, that
// chunk is also reopened: a boundary that was never persisted should not be
// locked in across an edit, since the sequence tail may now extend it. A
// synced final chunk is never reopened without a genuine content change.
//
// Parameters:
//   - store: Chunk store to trim (mutated in place)
//   - items: New item sequence, already hydrated with cached processed sizes
//
// Returns:
//   - kept: Number of chunks retained
//   - dropped: Number of chunks discarded
func Revalidate(store *Store, items []types.Item) (kept, dropped int) {
	chunks := store.Chunks()

	offset := 0
	valid := 0
	for _, c := range chunks {
		if !chunkMatches(c, items, offset) {
			break
		}
		offset += len(c.Items)
		valid++
	}

	if valid == len(chunks) && valid > 0 {
		last := chunks[valid-1]
		switch {
		case len(last.Items) == 0 && len(items) > 0:
			// The empty-input placeholder gives way to real content.
			valid--
		case last.State != types.ChunkSynced && offset < len(items):
			// Unsynced final chunk with unassigned items after it: reopen it
			// so packing may extend the boundary.
			valid--
		case last.NeedsSync() && last.State == types.ChunkSynced:
			// Hash drifted since the last upload; the sync driver handles
			// re-upload, no repacking needed.
		}
	}

	dropped = store.Truncate(valid)

	return valid, dropped
}

// chunkMatches reports whether the chunk's items equal the same-length slice
// of the new sequence at offset, item by item.
func chunkMatches(c *Chunk, items []types.Item, offset int) bool {
	if offset+len(c.Items) > len(items) {
		return false
	}
	for i, it := range c.Items {
		if !it.SameContent(items[offset+i]) {
			return false
		}
	}

	return true
}
