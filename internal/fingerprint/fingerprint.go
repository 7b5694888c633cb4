// Package fingerprint computes deterministic content hashes for items and
// chunks using xxh3.
//
// A chunk's content hash folds in the identity, fingerprint, and compression
// cache state of every item, in order, plus the chunk title and the session
// compression level. Two chunks with equal hashes produce byte-identical
// assembled output given the same assembler.
package fingerprint

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/bjud-in-oss/bindery/types"
)

// Chunk computes the content hash of an ordered item slice packed under the
// given title and compression level.
//
// Each contributor is length-prefixed before hashing so adjacent fields can
// never alias (["ab","c"] must not collide with ["a","bc"]).
//
// Parameters:
//   - items: Ordered items packed into the chunk
//   - title: Chunk title (part of the assembled artifact)
//   - level: Session compression level
//
// Returns:
//   - uint64: Deterministic content hash (0 only by coincidence, not reserved)
func Chunk(items []types.Item, title string, level types.CompressionLevel) uint64 {
	h := xxh3.New()

	writeString(h, title)
	writeUint64(h, uint64(level))
	writeUint64(h, uint64(len(items)))

	for _, it := range items {
		writeString(h, it.ID)
		writeUint64(h, it.Fingerprint)
		writeUint64(h, uint64(it.ProcessedSize))
		writeUint64(h, uint64(it.ProcessedLevel))
	}

	return h.Sum64()
}

// Item computes a content fingerprint from raw item bytes. Callers that
// manage their own fingerprints (e.g. combining overlay state) are free to
// ignore this helper.
//
// Parameters:
//   - data: Raw item content bytes
//
// Returns:
//   - uint64: Deterministic fingerprint of the content
func Item(data []byte) uint64 {
	return xxh3.Hash(data)
}

func writeString(h *xxh3.Hasher, s string) {
	writeUint64(h, uint64(len(s)))
	_, _ = h.WriteString(s)
}

func writeUint64(h *xxh3.Hasher, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}
