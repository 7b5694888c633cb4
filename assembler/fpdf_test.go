package assembler_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/assembler"
	binderytest "github.com/bjud-in-oss/bindery/testing"
	"github.com/bjud-in-oss/bindery/types"
)

func testItems() ([]types.Item, map[string][]byte) {
	content := map[string][]byte{
		"item-1": bytes.Repeat([]byte("first page "), 200),
		"item-2": bytes.Repeat([]byte("second page "), 300),
	}
	items := []types.Item{
		{ID: "item-1", Title: "First Page", RawSize: int64(len(content["item-1"]))},
		{ID: "item-2", Title: "Second Page", RawSize: int64(len(content["item-2"]))},
	}

	return items, content
}

func TestNewFpdfRequiresProvider(t *testing.T) {
	t.Parallel()

	_, err := assembler.NewFpdf(nil)
	require.Error(t, err)
}

func TestAssembleProducesPDF(t *testing.T) {
	t.Parallel()

	items, content := testItems()
	a, err := assembler.NewFpdf(binderytest.NewFakeContentProvider(content))
	require.NoError(t, err)
	defer a.Close()

	data, err := a.Assemble(context.Background(), items, "volume-001", types.CompressionMedium)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	require.Greater(t, len(data), 1024)
}

func TestAssembleIsDeterministic(t *testing.T) {
	t.Parallel()

	items, content := testItems()
	a, err := assembler.NewFpdf(binderytest.NewFakeContentProvider(content))
	require.NoError(t, err)
	defer a.Close()

	first, err := a.Assemble(context.Background(), items, "volume-001", types.CompressionMedium)
	require.NoError(t, err)
	second, err := a.Assemble(context.Background(), items, "volume-001", types.CompressionMedium)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAssembleGrowsWithContent(t *testing.T) {
	t.Parallel()

	items, content := testItems()
	a, err := assembler.NewFpdf(binderytest.NewFakeContentProvider(content))
	require.NoError(t, err)
	defer a.Close()

	one, err := a.Assemble(context.Background(), items[:1], "volume-001", types.CompressionNone)
	require.NoError(t, err)
	two, err := a.Assemble(context.Background(), items, "volume-001", types.CompressionNone)
	require.NoError(t, err)
	require.Greater(t, len(two), len(one))
}

func TestAssembleMissingContentFails(t *testing.T) {
	t.Parallel()

	a, err := assembler.NewFpdf(binderytest.NewFakeContentProvider(nil))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Assemble(context.Background(), []types.Item{{ID: "missing"}}, "volume-001", types.CompressionMedium)
	require.Error(t, err)
}

func TestAssembleCancelledContext(t *testing.T) {
	t.Parallel()

	items, content := testItems()
	a, err := assembler.NewFpdf(binderytest.NewFakeContentProvider(content))
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = a.Assemble(ctx, items, "volume-001", types.CompressionMedium)
	require.ErrorIs(t, err, context.Canceled)
}
