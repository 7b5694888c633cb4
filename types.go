package bindery

import "github.com/bjud-in-oss/bindery/types"

// Re-export types from the internal types package.
//
// This file provides a stable, backward-compatible public API for the library's
// core types and interfaces. It uses type aliases to re-export definitions
// from the `types` subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal packages
// to depend on `types` without depending on the root `bindery` package, while
// still providing a convenient `bindery.Item`, `bindery.Logger`, etc. for users.
type (
	Item             = types.Item
	ChunkInfo        = types.ChunkInfo
	ChunkState       = types.ChunkState
	CompressionLevel = types.CompressionLevel
	Parameters       = types.Parameters
	Progress         = types.Progress
	SessionState     = types.SessionState
	ChunkRecord      = types.ChunkRecord
)

// Re-export interfaces from the internal types package for convenience.
type (
	Compressor        = types.Compressor
	DocumentAssembler = types.DocumentAssembler
	CloudStore        = types.CloudStore
	ContentProvider   = types.ContentProvider
	SizeEstimator     = types.SizeEstimator
	ItemSource        = types.ItemSource
	Persistence       = types.Persistence
	MetricsCollector  = types.MetricsCollector
	Logger            = types.Logger
	Hooks             = types.Hooks
)

// Re-export ChunkState constants from the internal types package.
const (
	ChunkPending   = types.ChunkPending
	ChunkOptimized = types.ChunkOptimized
	ChunkUploading = types.ChunkUploading
	ChunkSynced    = types.ChunkSynced
	ChunkDirty     = types.ChunkDirty
)

// Re-export CompressionLevel constants from the internal types package.
const (
	CompressionNone   = types.CompressionNone
	CompressionLow    = types.CompressionLow
	CompressionMedium = types.CompressionMedium
	CompressionHigh   = types.CompressionHigh
)
