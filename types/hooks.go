package types

import "context"

// Hooks defines callbacks for Session lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking the packing and sync loops. Hooks receive the session's
// lifecycle context which will be cancelled during shutdown.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks run concurrently and may not complete before Stop() returns
//   - The context passed to hooks is cancelled when the session stops
//   - Hook errors are logged but don't fail session operations
//
// Best practices for hook implementation:
//   - Complete quickly (< 1 second recommended)
//   - Respect context cancellation
//   - Don't block on long I/O operations
//   - Make hooks idempotent (may be called multiple times)
//   - Handle errors gracefully (return error for logging)
type Hooks struct {
	// OnChunkFinalized is called when the partitioner finalizes a chunk.
	OnChunkFinalized func(ctx context.Context, chunk ChunkInfo) error

	// OnChunkStateChanged is called when a chunk transitions between
	// synchronization states.
	OnChunkStateChanged func(ctx context.Context, ordinal int, from, to ChunkState) error

	// OnPlanInvalidated is called when revalidation drops chunks.
	// kept: number of chunks retained; dropped: number of chunks discarded.
	OnPlanInvalidated func(ctx context.Context, kept, dropped int) error

	// OnError is called when a recoverable error occurs.
	OnError func(ctx context.Context, err error) error
}
