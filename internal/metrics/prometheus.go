package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjud-in-oss/bindery/types"
)

// PrometheusCollector implements MetricsCollector using Prometheus.
//
// Metric registration is lazy and happens once on first use, so creating a
// collector that is never exercised does not pollute the registry.
type PrometheusCollector struct {
	reg  prometheus.Registerer
	ns   string
	once sync.Once

	chunksFinalized  *prometheus.CounterVec
	chunkSizeBytes   prometheus.Histogram
	assembleDuration *prometheus.HistogramVec
	estimateFallback prometheus.Counter
	planInvalidation prometheus.Counter
	chunksDropped    prometheus.Counter
	packedItems      prometheus.Gauge
	totalItems       prometheus.Gauge
	uploadDuration   *prometheus.HistogramVec
	stateTransitions *prometheus.CounterVec
	dirtyChunks      prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metric namespace prefix (e.g. "bindery")
//
// Returns:
//   - *PrometheusCollector: Collector ready to register metrics on first use
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "bindery"
	}

	return &PrometheusCollector{reg: reg, ns: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.chunksFinalized = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.ns,
			Name:      "chunks_finalized_total",
			Help:      "Finalized chunks by optimization outcome.",
		}, []string{"optimized"})

		p.chunkSizeBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.ns,
			Name:      "chunk_size_bytes",
			Help:      "Accepted chunk sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(256*1024, 2, 8), // 256KiB .. 32MiB
		})

		p.assembleDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.ns,
			Name:      "assemble_duration_seconds",
			Help:      "Precision-verify assembly latency.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~40s
		}, []string{"result"})

		p.estimateFallback = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.ns,
			Name:      "estimate_fallbacks_total",
			Help:      "Compressor failures that forced raw-size estimation.",
		})

		p.planInvalidation = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.ns,
			Name:      "plan_invalidations_total",
			Help:      "Revalidation passes that dropped at least one chunk.",
		})

		p.chunksDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.ns,
			Name:      "chunks_dropped_total",
			Help:      "Chunks discarded by revalidation.",
		})

		p.packedItems = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.ns,
			Name:      "packed_items",
			Help:      "Items covered by finalized chunks (optimization cursor).",
		})

		p.totalItems = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.ns,
			Name:      "total_items",
			Help:      "Current item sequence length.",
		})

		p.uploadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.ns,
			Name:      "upload_duration_seconds",
			Help:      "Artifact upload latency including assembly.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms .. ~200s
		}, []string{"result"})

		p.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.ns,
			Name:      "chunk_state_transitions_total",
			Help:      "Chunk lifecycle transitions.",
		}, []string{"from", "to"})

		p.dirtyChunks = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.ns,
			Name:      "dirty_chunks",
			Help:      "Chunks awaiting upload or retry.",
		})

		collectors := []prometheus.Collector{
			p.chunksFinalized, p.chunkSizeBytes, p.assembleDuration,
			p.estimateFallback, p.planInvalidation, p.chunksDropped,
			p.packedItems, p.totalItems, p.uploadDuration,
			p.stateTransitions, p.dirtyChunks,
		}
		for _, c := range collectors {
			// AlreadyRegisteredError is tolerated so tests can share a registry.
			if err := p.reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	})
}

// RecordChunkFinalized records a finalized chunk.
func (p *PrometheusCollector) RecordChunkFinalized(sizeBytes int64, _ int, optimized bool) {
	p.ensureRegistered()
	p.chunksFinalized.WithLabelValues(boolLabel(optimized)).Inc()
	p.chunkSizeBytes.Observe(float64(sizeBytes))
}

// RecordAssembleDuration records a precision-verify assembly invocation.
func (p *PrometheusCollector) RecordAssembleDuration(duration float64, success bool) {
	p.ensureRegistered()
	p.assembleDuration.WithLabelValues(resultLabel(success)).Observe(duration)
}

// RecordEstimateFallback records a raw-size fallback.
func (p *PrometheusCollector) RecordEstimateFallback() {
	p.ensureRegistered()
	p.estimateFallback.Inc()
}

// RecordPlanInvalidation records a revalidation pass.
func (p *PrometheusCollector) RecordPlanInvalidation(_ /* kept */, dropped int) {
	p.ensureRegistered()
	if dropped > 0 {
		p.planInvalidation.Inc()
		p.chunksDropped.Add(float64(dropped))
	}
}

// RecordPackingProgress sets the cursor and sequence length gauges.
func (p *PrometheusCollector) RecordPackingProgress(packedItems, totalItems int) {
	p.ensureRegistered()
	p.packedItems.Set(float64(packedItems))
	p.totalItems.Set(float64(totalItems))
}

// RecordUploadDuration records an upload attempt.
func (p *PrometheusCollector) RecordUploadDuration(duration float64, success bool) {
	p.ensureRegistered()
	p.uploadDuration.WithLabelValues(resultLabel(success)).Observe(duration)
}

// RecordChunkStateTransition records a chunk lifecycle transition.
func (p *PrometheusCollector) RecordChunkStateTransition(from, to types.ChunkState) {
	p.ensureRegistered()
	p.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// RecordDirtyChunks sets the dirty chunk gauge.
func (p *PrometheusCollector) RecordDirtyChunks(count int) {
	p.ensureRegistered()
	p.dirtyChunks.Set(float64(count))
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}

	return "false"
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}
