// Package bindery provides a Go library for incrementally packing an ordered
// document sequence into size-bounded volumes and keeping their assembled
// artifacts synchronized with cloud storage.
//
// Bindery solves the upload-ceiling problem for long-lived, frequently edited
// document collections: every assembled volume must stay under a hard size
// limit, yet an edit anywhere in the sequence should only redo the work it
// actually invalidates. Packing uses cheap size estimates first and exact
// assembly only near chunk boundaries; synchronization uploads volumes
// in order with content-hash idempotence and per-volume retry backoff.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/bjud-in-oss/bindery"
//
//	cfg := bindery.DefaultConfig()
//	cfg.CeilingMB = 14
//
//	session, err := bindery.NewSession(&cfg, compressor, assembler, cloud)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := session.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Stop(context.Background())
//
//	session.SetItems(items)
//	<-session.WaitIdle(time.Minute)
//
// # Key Features
//
//   - Estimate-then-verify packing: exact assembly runs only when an estimated
//     chunk approaches the ceiling, then the boundary is extended or shed
//   - Incremental revalidation: an edit to item N invalidates only the chunks
//     from the one containing N onward; earlier chunks keep their sync state
//   - Content-addressed sync: a chunk whose hash matches its last uploaded
//     artifact is never re-uploaded
//   - Debounced scheduling: bursts of edits settle before packing resumes,
//     and packing settles before artifacts are pushed
//
// # Architecture
//
// Chunks progress through a lifecycle state machine:
//
//	PENDING → OPTIMIZED → UPLOADING → SYNCED
//	                          ↓
//	                        DIRTY (items changed or upload failed; re-uploaded)
//
// A single scheduler goroutine owns all chunk mutation. Expensive calls
// (compression, assembly, upload) run outside the session lock; a generation
// counter discards results that were computed against a superseded sequence.
//
// # Advanced Usage
//
// Custom estimator and lifecycle hooks:
//
//	import (
//	    "github.com/bjud-in-oss/bindery"
//	    "github.com/bjud-in-oss/bindery/estimate"
//	)
//
//	est := estimate.NewHeuristic(8, estimate.WithOverhead(4096))
//
//	hooks := &bindery.Hooks{
//	    OnChunkFinalized: func(ctx context.Context, chunk bindery.ChunkInfo) error {
//	        // Update UI with the new volume boundary
//	        return nil
//	    },
//	}
//
//	session, err := bindery.NewSession(&cfg, compressor, assembler, cloud,
//	    bindery.WithEstimator(est),
//	    bindery.WithHooks(hooks),
//	)
//
// See the examples/ directory for complete working examples.
package bindery
