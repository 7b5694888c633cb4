package compressor_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/compressor"
	binderytest "github.com/bjud-in-oss/bindery/testing"
	"github.com/bjud-in-oss/bindery/types"
)

func TestNewZstdRequiresProvider(t *testing.T) {
	t.Parallel()

	_, err := compressor.NewZstd(nil)
	require.Error(t, err)
}

func TestProcessNoneReturnsRawLength(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("page content "), 100)
	provider := binderytest.NewFakeContentProvider(map[string][]byte{"item-1": data})

	z, err := compressor.NewZstd(provider)
	require.NoError(t, err)
	defer z.Close()

	size, err := z.Process(context.Background(), types.Item{ID: "item-1"}, types.CompressionNone)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), size)
}

func TestProcessCompressesRepetitiveContent(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("page content "), 1000)
	provider := binderytest.NewFakeContentProvider(map[string][]byte{"item-1": data})

	z, err := compressor.NewZstd(provider)
	require.NoError(t, err)
	defer z.Close()

	size, err := z.Process(context.Background(), types.Item{ID: "item-1"}, types.CompressionMedium)
	require.NoError(t, err)
	require.Positive(t, size)
	require.Less(t, size, int64(len(data)))
}

func TestProcessIsDeterministic(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("deterministic "), 500)
	provider := binderytest.NewFakeContentProvider(map[string][]byte{"item-1": data})

	z, err := compressor.NewZstd(provider)
	require.NoError(t, err)
	defer z.Close()

	item := types.Item{ID: "item-1"}
	first, err := z.Process(context.Background(), item, types.CompressionHigh)
	require.NoError(t, err)
	second, err := z.Process(context.Background(), item, types.CompressionHigh)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestProcessMissingContentFails(t *testing.T) {
	t.Parallel()

	z, err := compressor.NewZstd(binderytest.NewFakeContentProvider(nil))
	require.NoError(t, err)
	defer z.Close()

	_, err = z.Process(context.Background(), types.Item{ID: "missing"}, types.CompressionMedium)
	require.Error(t, err)
}

func TestProcessInvalidLevelFails(t *testing.T) {
	t.Parallel()

	provider := binderytest.NewFakeContentProvider(map[string][]byte{"item-1": []byte("x")})
	z, err := compressor.NewZstd(provider)
	require.NoError(t, err)
	defer z.Close()

	_, err = z.Process(context.Background(), types.Item{ID: "item-1"}, types.CompressionLevel(42))
	require.Error(t, err)
}
