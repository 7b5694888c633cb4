// Package compressor provides a zstd Compressor that measures exact processed
// item sizes for the packing engine.
package compressor

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/bjud-in-oss/bindery/types"
)

// encoderLevels maps engine compression levels to zstd encoder levels.
var encoderLevels = map[types.CompressionLevel]zstd.EncoderLevel{
	types.CompressionLow:    zstd.SpeedFastest,
	types.CompressionMedium: zstd.SpeedDefault,
	types.CompressionHigh:   zstd.SpeedBestCompression,
}

// Zstd compresses item content with zstd and reports the exact compressed
// size. Content bytes are fetched through a ContentProvider; the engine never
// sees them.
//
// One encoder per compression level is created at construction and reused
// across calls; zstd encoders are safe for concurrent EncodeAll use.
type Zstd struct {
	provider types.ContentProvider
	encoders map[types.CompressionLevel]*zstd.Encoder
}

var _ types.Compressor = (*Zstd)(nil)

// NewZstd creates a zstd compressor reading item content from provider.
func NewZstd(provider types.ContentProvider) (*Zstd, error) {
	if provider == nil {
		return nil, fmt.Errorf("content provider is required")
	}

	encoders := make(map[types.CompressionLevel]*zstd.Encoder, len(encoderLevels))
	for level, encLevel := range encoderLevels {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encLevel))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder for level %s: %w", level, err)
		}
		encoders[level] = enc
	}

	return &Zstd{provider: provider, encoders: encoders}, nil
}

// Process implements types.Compressor.
//
// CompressionNone returns the raw content length without encoding. Other
// levels return the exact zstd frame size at the mapped encoder level.
func (z *Zstd) Process(ctx context.Context, item types.Item, level types.CompressionLevel) (int64, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("invalid compression level %d", level)
	}

	data, err := z.provider.Content(ctx, item.ID)
	if err != nil {
		return 0, fmt.Errorf("fetch content for item %q: %w", item.ID, err)
	}

	if level == types.CompressionNone {
		return int64(len(data)), nil
	}

	compressed := z.encoders[level].EncodeAll(data, nil)

	return int64(len(compressed)), nil
}

// Close releases the encoders. The compressor must not be used afterwards.
func (z *Zstd) Close() error {
	for _, enc := range z.encoders {
		enc.Close()
	}

	return nil
}
