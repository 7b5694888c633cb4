package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/types"
)

func TestPrometheusRegistersLazily(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	collector := NewPrometheus(reg, "bindery_test")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Empty(t, families, "no metrics should register before first use")

	collector.RecordChunkFinalized(1024, 3, true)

	families, err = reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestPrometheusRecordsCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	collector := NewPrometheus(reg, "bindery_test")

	collector.RecordChunkFinalized(1024, 3, true)
	collector.RecordChunkFinalized(2048, 2, false)
	collector.RecordEstimateFallback()
	collector.RecordPlanInvalidation(2, 3)
	collector.RecordPlanInvalidation(5, 0) // no drop, no increment
	collector.RecordChunkStateTransition(types.ChunkOptimized, types.ChunkUploading)

	require.Equal(t, float64(1),
		testutil.ToFloat64(collector.chunksFinalized.WithLabelValues("true")))
	require.Equal(t, float64(1),
		testutil.ToFloat64(collector.chunksFinalized.WithLabelValues("false")))
	require.Equal(t, float64(1), testutil.ToFloat64(collector.estimateFallback))
	require.Equal(t, float64(1), testutil.ToFloat64(collector.planInvalidation))
	require.Equal(t, float64(3), testutil.ToFloat64(collector.chunksDropped))
	require.Equal(t, float64(1),
		testutil.ToFloat64(collector.stateTransitions.WithLabelValues("Optimized", "Uploading")))
}

func TestPrometheusRecordsGauges(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	collector := NewPrometheus(reg, "bindery_test")

	collector.RecordPackingProgress(3, 10)
	collector.RecordDirtyChunks(2)

	require.Equal(t, float64(3), testutil.ToFloat64(collector.packedItems))
	require.Equal(t, float64(10), testutil.ToFloat64(collector.totalItems))
	require.Equal(t, float64(2), testutil.ToFloat64(collector.dirtyChunks))
}

func TestPrometheusSharedRegistryTolerated(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	first := NewPrometheus(reg, "bindery_shared")
	second := NewPrometheus(reg, "bindery_shared")

	first.RecordDirtyChunks(1)
	require.NotPanics(t, func() { second.RecordDirtyChunks(2) })
}
