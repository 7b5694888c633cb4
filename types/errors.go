package types

import "errors"

// Sentinel errors for the Bindery library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Session errors - Public API errors returned by the Session component.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCompressorRequired is returned when the compressor is nil.
	ErrCompressorRequired = errors.New("compressor is required")

	// ErrAssemblerRequired is returned when the document assembler is nil.
	ErrAssemblerRequired = errors.New("document assembler is required")

	// ErrCloudStoreRequired is returned when the cloud store is nil.
	ErrCloudStoreRequired = errors.New("cloud store is required")

	// ErrAlreadyStarted is returned when Start is called on an already running session.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNotStarted is returned when operations require a started session.
	ErrNotStarted = errors.New("session not started")

	// ErrInvalidItems is returned when the item sequence contains duplicate or empty IDs.
	ErrInvalidItems = errors.New("invalid item sequence")
)

// Packing errors - Internal partitioner and revalidation errors.
var (
	// ErrAssemblyFailed is returned when the document assembler fails during
	// precision verification. The packing step is retried on a later pass.
	ErrAssemblyFailed = errors.New("document assembly failed")

	// ErrCompressionFailed is returned when the compressor fails for an item.
	// Packing proceeds with the item's raw declared size.
	ErrCompressionFailed = errors.New("item compression failed")
)

// Sync errors - Upload pipeline errors.
var (
	// ErrUploadFailed is returned when the cloud store rejects an artifact upload.
	ErrUploadFailed = errors.New("artifact upload failed")
)
