package bindery

import "github.com/bjud-in-oss/bindery/types"

// Sentinel errors returned by the Session. These alias the definitions in the
// types subpackage so internal packages and callers compare against the same
// values with errors.Is().
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrCompressorRequired is returned when the compressor is nil.
	ErrCompressorRequired = types.ErrCompressorRequired

	// ErrAssemblerRequired is returned when the document assembler is nil.
	ErrAssemblerRequired = types.ErrAssemblerRequired

	// ErrCloudStoreRequired is returned when the cloud store is nil.
	ErrCloudStoreRequired = types.ErrCloudStoreRequired

	// ErrAlreadyStarted is returned when Start is called on a running session.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when Stop is called on a session that hasn't been started.
	ErrNotStarted = types.ErrNotStarted

	// ErrInvalidItems is returned when an item sequence contains empty or duplicate IDs.
	ErrInvalidItems = types.ErrInvalidItems

	// ErrUploadFailed is returned when the cloud store rejects an artifact upload.
	ErrUploadFailed = types.ErrUploadFailed

	// ErrNoState is returned by Persistence.Load when no snapshot exists yet.
	ErrNoState = types.ErrNoState
)
