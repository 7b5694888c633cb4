package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/bjud-in-oss/bindery/internal/fingerprint"
	"github.com/bjud-in-oss/bindery/types"
)

// Partitioner packs the item sequence into size-bounded chunks using the
// two-phase fast-fill / precision-verify strategy.
//
// Fast-fill accumulates cheap per-item estimates (compressing uncompressed
// items along the way, cached per item and level) until the running total
// crosses the verify threshold. Only then is the document assembler invoked
// to obtain the exact size, and the chunk boundary is adjusted around that
// measurement.
//
// The partitioner holds one chunk in flight at a time: Step finalizes at
// most one chunk per call, which keeps verify-phase cost bounded and the
// cursor invariant simple.
type Partitioner struct {
	compressor types.Compressor
	assembler  types.DocumentAssembler
	estimator  types.SizeEstimator
	logger     types.Logger
	metrics    types.PackerMetrics

	titlePattern     string
	verifyThreshold  float64 // fraction of ceiling (0..1)
	operationTimeout time.Duration

	// sizeCache memoizes compression results keyed by item ID, level, and
	// fingerprint, so re-packing after invalidation never re-compresses
	// unchanged items.
	sizeCache *xsync.MapOf[string, int64]
}

// NewPartitioner creates a partitioner.
//
// Parameters:
//   - compressor: Compressor for exact per-item processed sizes
//   - assembler: Document assembler for precision verification
//   - estimator: Cheap per-item size estimator for the fast-fill phase
//   - titlePattern: fmt pattern producing a chunk title from its 1-based number
//   - verifyThresholdPercent: Fraction of the ceiling (in percent) at which
//     fast-fill stops and verification begins
//   - operationTimeout: Per external call timeout (0 disables)
//   - logger: Logger for packing decisions
//   - metrics: Packer metrics collector
func NewPartitioner(
	compressor types.Compressor,
	assembler types.DocumentAssembler,
	estimator types.SizeEstimator,
	titlePattern string,
	verifyThresholdPercent float64,
	operationTimeout time.Duration,
	logger types.Logger,
	metrics types.PackerMetrics,
) *Partitioner {
	return &Partitioner{
		compressor:       compressor,
		assembler:        assembler,
		estimator:        estimator,
		logger:           logger,
		metrics:          metrics,
		titlePattern:     titlePattern,
		verifyThreshold:  verifyThresholdPercent / 100,
		operationTimeout: operationTimeout,
		sizeCache:        xsync.NewMapOf[string, int64](),
	}
}

// Hydrate fills in cached processed sizes on items that do not carry them.
//
// Callers own items and typically do not track the engine's compression
// progress; without hydration every edit would look like a compression state
// change and invalidate all chunks. Hydrate must be called on an incoming
// sequence before revalidation.
func (p *Partitioner) Hydrate(items []types.Item, level types.CompressionLevel) {
	for i := range items {
		it := &items[i]
		if it.ProcessedSize > 0 && it.ProcessedLevel == level {
			continue
		}
		if size, ok := p.sizeCache.Load(cacheKey(*it, level)); ok {
			it.ProcessedSize = size
			it.ProcessedLevel = level
		}
	}
}

// Prime seeds the compression cache from items that already carry exact
// processed sizes, typically the items of restored persisted chunks. Without
// priming, the first SetItems after a restart would see every item as
// uncompressed and invalidate all restored chunks.
func (p *Partitioner) Prime(items []types.Item) {
	for _, it := range items {
		if it.ProcessedSize > 0 {
			p.sizeCache.Store(cacheKey(it, it.ProcessedLevel), it.ProcessedSize)
		}
	}
}

// Remeasure retries compression for items that lack an exact processed size
// at the level, filling the cache on success. Items packed with the raw-size
// fallback carry no processed size, so a later Hydrate of the sequence picks
// up the new measurements and revalidation reopens the affected chunks.
//
// Returns:
//   - attempted: Number of items that still needed compression
//   - measured: Number of items successfully measured this call
func (p *Partitioner) Remeasure(ctx context.Context, items []types.Item, level types.CompressionLevel) (attempted, measured int) {
	for i := range items {
		it := items[i]
		if it.ProcessedSize > 0 && it.ProcessedLevel == level {
			continue
		}

		attempted++
		if err := p.ensureProcessed(ctx, &it, level); err != nil {
			p.logger.Debug("recompression still failing",
				"item", it.ID, "level", level.String(), "error", err)

			continue
		}
		measured++
	}

	return attempted, measured
}

// Step packs at most one chunk starting at cursor and returns it finalized.
//
// Returns (nil, nil) when the cursor has reached the end of the sequence.
// Returns an error only when precision verification failed before any
// boundary was accepted; the caller retries the step on a later tick.
//
// Parameters:
//   - ctx: Context for the expensive compressor/assembler calls
//   - items: Current item sequence (not mutated)
//   - cursor: First unassigned item index
//   - params: Packing parameters (ceiling, margin, level)
//   - ordinal: Ordinal the new chunk will occupy
//
// Returns:
//   - *Chunk: Finalized chunk covering items[cursor:cursor+n], or nil
//   - error: Assembly failure before an accepted boundary
func (p *Partitioner) Step(ctx context.Context, items []types.Item, cursor int, params types.Parameters, ordinal int) (*Chunk, error) {
	if cursor >= len(items) {
		return nil, nil
	}

	ceiling := params.CeilingBytes()
	threshold := int64(float64(ceiling) * p.verifyThreshold)
	title := fmt.Sprintf(p.titlePattern, ordinal+1)
	level := params.CompressionLevel

	batch := make([]types.Item, 0, 8)
	optimized := true
	estTotal := int64(0)
	idx := cursor

	// Fast-fill: accumulate estimates until the threshold is crossed or the
	// input is exhausted. Compression is the only expensive call here and is
	// cached per (item, level, fingerprint).
	for idx < len(items) {
		it := items[idx]
		if err := p.ensureProcessed(ctx, &it, level); err != nil {
			// Raw-size fallback keeps packing moving; the chunk is marked
			// unoptimized and revisited once compression succeeds.
			optimized = false
			p.metrics.RecordEstimateFallback()
			p.logger.Warn("compression failed, using raw size",
				"item", it.ID, "level", level.String(), "error", err)
		}

		est := p.estimator.Estimate(it, level)

		if len(batch) == 0 && est >= ceiling {
			// The estimate alone exceeds the ceiling: short-circuit into a
			// single-item chunk without waiting for the fast-fill loop.
			return p.finalizeOversize(ctx, it, title, level, optimized, ceiling)
		}

		batch = append(batch, it)
		estTotal += est
		idx++

		if estTotal >= threshold {
			break
		}
	}

	// Precision verify: measure the batch exactly, then adjust the boundary.
	size, err := p.measure(ctx, batch, title, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrAssemblyFailed, err.Error())
	}

	if size < ceiling {
		// Under the ceiling: greedily extend one item at a time, re-verifying
		// after each candidate, until the input ends or a candidate overflows.
		for idx < len(items) {
			next := items[idx]
			if err := p.ensureProcessed(ctx, &next, level); err != nil {
				optimized = false
				p.metrics.RecordEstimateFallback()
			}

			candidate := append(batch[:len(batch):len(batch)], next)
			candSize, err := p.measure(ctx, candidate, title, level)
			if err != nil {
				// The previous boundary is known good; finalize with it and
				// let the next step retry from the following item.
				p.logger.Warn("assembly failed during extension, keeping last accepted boundary",
					"title", title, "items", len(batch), "error", err)

				break
			}
			if candSize >= ceiling {
				break
			}

			batch = candidate
			size = candSize
			idx++
		}
	} else {
		// At or over the ceiling: shed items from the tail until the batch
		// fits or a single item remains. A lone oversized item is accepted
		// as its own chunk so the cursor always advances.
		for size >= ceiling && len(batch) > 1 {
			batch = batch[:len(batch)-1]
			remeasured, err := p.measure(ctx, batch, title, level)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", types.ErrAssemblyFailed, err.Error())
			}
			size = remeasured
		}
	}

	return p.finalize(batch, title, level, size, optimized, size >= ceiling && len(batch) == 1), nil
}

// finalizeOversize accepts a single item whose estimate alone exceeds the
// ceiling. The exact size is still measured when possible; on assembly
// failure the estimate stands as the best-known size.
func (p *Partitioner) finalizeOversize(ctx context.Context, it types.Item, title string, level types.CompressionLevel, optimized bool, ceiling int64) (*Chunk, error) {
	batch := []types.Item{it}

	size, err := p.measure(ctx, batch, title, level)
	if err != nil {
		size = p.estimator.Estimate(it, level)
		p.logger.Warn("assembly failed for oversized item, using estimate",
			"item", it.ID, "estimate", size, "error", err)
	}

	p.logger.Info("item exceeds ceiling alone, emitting oversized chunk",
		"item", it.ID, "size", size, "ceiling", ceiling)

	return p.finalize(batch, title, level, size, optimized, true), nil
}

func (p *Partitioner) finalize(batch []types.Item, title string, level types.CompressionLevel, size int64, optimized, oversized bool) *Chunk {
	items := make([]types.Item, len(batch))
	copy(items, batch)

	c := &Chunk{
		Title:       title,
		Items:       items,
		SizeBytes:   size,
		State:       types.ChunkOptimized,
		ContentHash: fingerprint.Chunk(items, title, level),
		Optimized:   optimized,
		Oversized:   oversized,
	}

	p.metrics.RecordChunkFinalized(size, len(items), optimized)
	p.logger.Debug("chunk finalized",
		"title", title, "items", len(items), "size", size,
		"optimized", optimized, "oversized", oversized)

	return c
}

// ensureProcessed makes sure the item carries an exact processed size for
// the target level, consulting the cache before calling the compressor.
func (p *Partitioner) ensureProcessed(ctx context.Context, it *types.Item, level types.CompressionLevel) error {
	if it.ProcessedSize > 0 && it.ProcessedLevel == level {
		return nil
	}

	key := cacheKey(*it, level)
	if size, ok := p.sizeCache.Load(key); ok {
		it.ProcessedSize = size
		it.ProcessedLevel = level

		return nil
	}

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	size, err := p.compressor.Process(cctx, *it, level)
	if err != nil {
		return fmt.Errorf("%w: %s", types.ErrCompressionFailed, err.Error())
	}

	p.sizeCache.Store(key, size)
	it.ProcessedSize = size
	it.ProcessedLevel = level

	return nil
}

// measure invokes the assembler on the batch and returns the exact artifact
// length.
func (p *Partitioner) measure(ctx context.Context, batch []types.Item, title string, level types.CompressionLevel) (int64, error) {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	start := time.Now()
	data, err := p.assembler.Assemble(cctx, batch, title, level)
	p.metrics.RecordAssembleDuration(time.Since(start).Seconds(), err == nil)

	if err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}

func (p *Partitioner) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.operationTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, p.operationTimeout)
}

// cacheKey builds the compression cache key. The fingerprint is part of the
// key so an edited item is always re-compressed.
func cacheKey(it types.Item, level types.CompressionLevel) string {
	return fmt.Sprintf("%s\x00%d\x00%x", it.ID, level, it.Fingerprint)
}
