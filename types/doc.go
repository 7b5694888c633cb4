// Package types provides core type definitions and interfaces for the Bindery library.
//
// This package contains shared types that are used across multiple packages in the
// Bindery library. By keeping these types in a separate package, we avoid import cycles
// between the main bindery package and its internal implementations.
//
// Key types:
//   - Item: Source document unit with a stable identity and content fingerprint
//   - ChunkInfo: Read-only snapshot of a packed output volume
//   - ChunkState: Per-chunk synchronization lifecycle state
//   - Compressor, DocumentAssembler, CloudStore: External collaborator contracts
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
