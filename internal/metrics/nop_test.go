package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/types"
)

func TestNopMetricsDoesNotPanic(t *testing.T) {
	t.Parallel()

	m := NewNop()
	m.RecordChunkFinalized(1024, 3, true)
	m.RecordAssembleDuration(0.5, false)
	m.RecordEstimateFallback()
	m.RecordPlanInvalidation(2, 1)
	m.RecordPackingProgress(3, 5)
	m.RecordUploadDuration(1.2, true)
	m.RecordChunkStateTransition(types.ChunkOptimized, types.ChunkUploading)
	m.RecordDirtyChunks(2)
}

func TestPrometheusCollectorRegistersAndRecords(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "bindery_test")

	m.RecordChunkFinalized(2048, 2, true)
	m.RecordAssembleDuration(0.1, true)
	m.RecordEstimateFallback()
	m.RecordPlanInvalidation(1, 3)
	m.RecordPackingProgress(4, 7)
	m.RecordUploadDuration(0.3, false)
	m.RecordChunkStateTransition(types.ChunkUploading, types.ChunkDirty)
	m.RecordDirtyChunks(1)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["bindery_test_chunks_finalized_total"])
	require.True(t, names["bindery_test_dirty_chunks"])
	require.True(t, names["bindery_test_upload_duration_seconds"])
}

func TestPrometheusCollectorToleratesSharedRegistry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := NewPrometheus(reg, "bindery_shared")
	b := NewPrometheus(reg, "bindery_shared")

	a.RecordEstimateFallback()
	b.RecordEstimateFallback()
}
