package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	PackerMetrics
	SyncMetrics
}

// PackerMetrics defines metrics for partitioning operations.
type PackerMetrics interface {
	// RecordChunkFinalized records a finalized chunk.
	//
	// Parameters:
	//   - sizeBytes: Accepted chunk size in bytes
	//   - itemCount: Number of items packed into the chunk
	//   - optimized: true if no item required raw-size fallback sizing
	RecordChunkFinalized(sizeBytes int64, itemCount int, optimized bool)

	// RecordAssembleDuration records a precision-verify assembly invocation.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - success: true if assembly succeeded, false otherwise
	RecordAssembleDuration(duration float64, success bool)

	// RecordEstimateFallback records a compressor failure that forced
	// raw-size fallback estimation for an item.
	RecordEstimateFallback()

	// RecordPlanInvalidation records a revalidation pass.
	//
	// Parameters:
	//   - kept: Number of chunks retained unchanged
	//   - dropped: Number of chunks discarded and rebuilt
	RecordPlanInvalidation(kept, dropped int)

	// RecordPackingProgress sets the current cursor position and sequence
	// length (gauge metrics).
	RecordPackingProgress(packedItems, totalItems int)
}

// SyncMetrics defines metrics for the upload pipeline.
type SyncMetrics interface {
	// RecordUploadDuration records an upload attempt.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - success: true if the upload succeeded, false otherwise
	RecordUploadDuration(duration float64, success bool)

	// RecordChunkStateTransition records a chunk lifecycle transition.
	RecordChunkStateTransition(from, to ChunkState)

	// RecordDirtyChunks sets the current number of chunks awaiting upload
	// or retry (gauge metric).
	RecordDirtyChunks(count int)
}
