package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/types"
)

func TestChunkDeterministic(t *testing.T) {
	t.Parallel()

	items := []types.Item{
		{ID: "a", Fingerprint: 1, ProcessedSize: 100, ProcessedLevel: types.CompressionMedium},
		{ID: "b", Fingerprint: 2, ProcessedSize: 200, ProcessedLevel: types.CompressionMedium},
	}

	h1 := Chunk(items, "volume-001", types.CompressionMedium)
	h2 := Chunk(items, "volume-001", types.CompressionMedium)
	require.Equal(t, h1, h2)
}

func TestChunkSensitivity(t *testing.T) {
	t.Parallel()

	items := []types.Item{
		{ID: "a", Fingerprint: 1, ProcessedSize: 100, ProcessedLevel: types.CompressionMedium},
		{ID: "b", Fingerprint: 2, ProcessedSize: 200, ProcessedLevel: types.CompressionMedium},
	}
	base := Chunk(items, "volume-001", types.CompressionMedium)

	// Order matters
	swapped := []types.Item{items[1], items[0]}
	require.NotEqual(t, base, Chunk(swapped, "volume-001", types.CompressionMedium))

	// Fingerprint matters
	edited := []types.Item{items[0], items[1]}
	edited[1].Fingerprint = 3
	require.NotEqual(t, base, Chunk(edited, "volume-001", types.CompressionMedium))

	// Title and level matter
	require.NotEqual(t, base, Chunk(items, "volume-002", types.CompressionMedium))
	require.NotEqual(t, base, Chunk(items, "volume-001", types.CompressionHigh))
}

func TestChunkNoFieldAliasing(t *testing.T) {
	t.Parallel()

	// Adjacent string fields must not collide when boundaries shift.
	a := []types.Item{{ID: "ab"}, {ID: "c"}}
	b := []types.Item{{ID: "a"}, {ID: "bc"}}
	require.NotEqual(t, Chunk(a, "t", types.CompressionNone), Chunk(b, "t", types.CompressionNone))
}

func TestItemFingerprint(t *testing.T) {
	t.Parallel()

	require.Equal(t, Item([]byte("page-1")), Item([]byte("page-1")))
	require.NotEqual(t, Item([]byte("page-1")), Item([]byte("page-2")))
}
