// Package metrics provides MetricsCollector implementations: a no-op
// default and a Prometheus-backed collector.
package metrics

import "github.com/bjud-in-oss/bindery/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// PackerMetrics implementation

// RecordChunkFinalized discards the chunk finalization metric.
func (n *NopMetrics) RecordChunkFinalized(_ /* sizeBytes */ int64, _ /* itemCount */ int, _ /* optimized */ bool) {
	// No-op
}

// RecordAssembleDuration discards the assembly duration metric.
func (n *NopMetrics) RecordAssembleDuration(_ /* duration */ float64, _ /* success */ bool) {
	// No-op
}

// RecordEstimateFallback discards the estimate fallback counter.
func (n *NopMetrics) RecordEstimateFallback() {
	// No-op
}

// RecordPlanInvalidation discards the plan invalidation metric.
func (n *NopMetrics) RecordPlanInvalidation(_ /* kept */, _ /* dropped */ int) {
	// No-op
}

// RecordPackingProgress discards the packing progress gauges.
func (n *NopMetrics) RecordPackingProgress(_ /* packedItems */, _ /* totalItems */ int) {
	// No-op
}

// SyncMetrics implementation

// RecordUploadDuration discards the upload duration metric.
func (n *NopMetrics) RecordUploadDuration(_ /* duration */ float64, _ /* success */ bool) {
	// No-op
}

// RecordChunkStateTransition discards the state transition metric.
func (n *NopMetrics) RecordChunkStateTransition(_ /* from */, _ /* to */ types.ChunkState) {
	// No-op
}

// RecordDirtyChunks discards the dirty chunk gauge.
func (n *NopMetrics) RecordDirtyChunks(_ /* count */ int) {
	// No-op
}
