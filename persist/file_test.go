package persist_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/persist"
	"github.com/bjud-in-oss/bindery/types"
)

func testState() types.SessionState {
	return types.SessionState{
		Parameters: types.Parameters{
			CeilingMB:           14,
			SafetyMarginPercent: 5,
			CompressionLevel:    types.CompressionMedium,
		},
		Cursor: 5,
		Chunks: []types.ChunkRecord{
			{
				Ordinal: 0,
				Title:   "volume-001",
				Items: []types.Item{
					{ID: "item-1", Title: "First", RawSize: 1024, ProcessedSize: 512, ProcessedLevel: types.CompressionMedium, Fingerprint: 7},
				},
				SizeBytes:      2048,
				State:          types.ChunkSynced,
				ContentHash:    0xdeadbeef,
				LastSyncedHash: 0xdeadbeef,
				Optimized:      true,
			},
			{Ordinal: 1, Title: "volume-002", State: types.ChunkDirty, ContentHash: 42},
		},
	}
}

func TestNewFileRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := persist.NewFile("")
	require.Error(t, err)
}

func TestLoadWithoutSaveReturnsNoState(t *testing.T) {
	t.Parallel()

	f, err := persist.NewFile(filepath.Join(t.TempDir(), "state.cbor"))
	require.NoError(t, err)

	_, err = f.Load(context.Background())
	require.ErrorIs(t, err, types.ErrNoState)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	f, err := persist.NewFile(filepath.Join(t.TempDir(), "state.cbor"))
	require.NoError(t, err)

	want := testState()
	require.NoError(t, f.Save(context.Background(), want))

	got, err := f.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	t.Parallel()

	f, err := persist.NewFile(filepath.Join(t.TempDir(), "state.cbor"))
	require.NoError(t, err)

	first := testState()
	require.NoError(t, f.Save(context.Background(), first))

	second := testState()
	second.Cursor = 9
	second.Chunks = second.Chunks[:1]
	require.NoError(t, f.Save(context.Background(), second))

	got, err := f.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, second, got)
}

func TestLoadSurvivesProcessRestart(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.cbor")

	f, err := persist.NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Save(context.Background(), testState()))

	reopened, err := persist.NewFile(path)
	require.NoError(t, err)

	got, err := reopened.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, testState(), got)
}
