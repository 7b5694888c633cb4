package bindery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bjud-in-oss/bindery/estimate"
	"github.com/bjud-in-oss/bindery/internal/hooks"
	"github.com/bjud-in-oss/bindery/internal/logger"
	"github.com/bjud-in-oss/bindery/internal/metrics"
	"github.com/bjud-in-oss/bindery/internal/plan"
	"github.com/bjud-in-oss/bindery/internal/syncer"
	"github.com/bjud-in-oss/bindery/types"
)

// packResult classifies the outcome of one packing step for the scheduler.
type packResult int

const (
	// packDone: nothing left to pack this generation.
	packDone packResult = iota
	// packProgress: a chunk was finalized and unassigned items remain.
	packProgress
	// packRetry: the step failed recoverably and should run again after the
	// pack debounce.
	packRetry
)

// Session packs an ordered item sequence into size-bounded volume chunks and
// keeps their assembled artifacts synchronized with cloud storage.
//
// A single scheduler goroutine owns all chunk mutation. Item and parameter
// changes are applied synchronously under the session lock (revalidation is
// cheap); the expensive work (compression, assembly, upload) runs outside the
// lock on debounced ticks, and a generation counter discards any result that
// was computed against a superseded sequence.
type Session struct {
	cfg        Config
	compressor Compressor
	assembler  DocumentAssembler
	cloud      CloudStore

	// Optional dependencies
	persistence Persistence
	source      ItemSource
	hooks       Hooks
	metrics     MetricsCollector
	logger      Logger

	// Internal components
	packer    *plan.Partitioner
	store     *plan.Store
	driver    *syncer.Driver
	estimator *swapEstimator

	// Guarded by mu: item sequence, packing parameters, chunk store, and the
	// generation counter that invalidates in-flight async work.
	mu         sync.Mutex
	items      []Item
	params     Parameters
	generation uint64

	// defaultEstimator is true when the session owns the heuristic estimator
	// and must rebuild it on margin changes.
	defaultEstimator bool

	// Scheduler wakeups; buffered so producers never block.
	packKick chan struct{}
	syncKick chan struct{}

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession creates a new Session instance with the provided configuration.
//
// The Session coordinates the full packing pipeline:
//   - Estimate-then-verify partitioning of items into ceiling-bounded chunks
//   - Prefix-based incremental revalidation on item changes
//   - Ordered, content-addressed artifact upload with per-chunk retry
//
// Returns a concrete *Session struct following the "accept interfaces, return
// structs" principle. Consumers can define their own interfaces for testing
// if needed.
//
// Parameters:
//   - cfg: Runtime configuration with parsed durations
//   - compressor: Compressor for exact per-item processed sizes
//   - assembler: Document assembler producing volume artifacts
//   - cloud: Cloud store receiving artifacts
//   - opts: Optional configuration (hooks, metrics, logger, persistence, ...)
//
// Returns:
//   - *Session: Initialized session instance
//   - error: Validation error if configuration or dependencies are invalid
//
// Example:
//
//	cfg := bindery.DefaultConfig()
//	cfg.CeilingMB = 14
//	session, err := bindery.NewSession(&cfg, compressor, assembler, cloud)
func NewSession(cfg *Config, compressor Compressor, assembler DocumentAssembler, cloud CloudStore, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if compressor == nil {
		return nil, ErrCompressorRequired
	}
	if assembler == nil {
		return nil, ErrAssemblerRequired
	}
	if cloud == nil {
		return nil, ErrCloudStoreRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	// Apply options
	options := &sessionOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := hooks.NewNop()
	if options.hooks != nil {
		hooksInstance = hooks.Fill(*options.hooks)
	}

	est := options.estimator
	defaultEstimator := est == nil
	if defaultEstimator {
		est = estimate.NewHeuristic(cfg.SafetyMarginPercent, estimate.WithOverhead(cfg.ItemOverheadBytes))
	}
	swap := newSwapEstimator(est)

	s := &Session{
		cfg:              *cfg,
		compressor:       compressor,
		assembler:        assembler,
		cloud:            cloud,
		persistence:      options.persistence,
		source:           options.source,
		hooks:            hooksInstance,
		metrics:          metricsCollector,
		logger:           loggerInstance,
		store:            plan.NewStore(),
		estimator:        swap,
		params:           cfg.Parameters(),
		defaultEstimator: defaultEstimator,
		packKick:         make(chan struct{}, 1),
		syncKick:         make(chan struct{}, 1),
	}

	s.packer = plan.NewPartitioner(
		compressor, assembler, swap,
		cfg.TitlePattern, cfg.VerifyThresholdPercent, cfg.OperationTimeout,
		loggerInstance, metricsCollector,
	)
	s.driver = syncer.NewDriver(
		assembler, cloud, cfg.ContainerID,
		cfg.SyncRetryBase, cfg.SyncRetryMax, cfg.OperationTimeout,
		options.retrySeed, loggerInstance, metricsCollector,
	)

	return s, nil
}

// Start launches the scheduler.
//
// If a persistence backend is configured, the previous session snapshot is
// restored first (a snapshot saved under different packing parameters is
// discarded). If an item source is configured, it is queried once for the
// initial sequence.
//
// Parameters:
//   - ctx: Context for startup work (restore, initial item fetch)
//
// Returns:
//   - error: Startup error, or ErrAlreadyStarted
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.ctx != nil {
		s.mu.Unlock()

		return ErrAlreadyStarted
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	if s.persistence != nil {
		s.restore(ctx)
	}

	if s.source != nil {
		items, err := s.source.Items(ctx)
		if err != nil {
			return fmt.Errorf("fetch initial items: %w", err)
		}
		if err := s.SetItems(items); err != nil {
			return err
		}
	}

	s.wg.Add(1)
	go s.run()

	s.kickPack()
	s.kickSync()

	return nil
}

// Stop gracefully shuts down the session.
//
// A final snapshot is saved before the scheduler is stopped, so a later Start
// resumes from the latest chunk boundaries.
//
// Parameters:
//   - ctx: Context for shutdown timeout
//
// Returns:
//   - error: Shutdown timeout, or ErrNotStarted
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.ctx == nil || s.ctx.Err() != nil {
		s.mu.Unlock()

		return ErrNotStarted
	}
	s.mu.Unlock()

	s.persist(ctx)

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("session stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Error("shutdown timeout exceeded, scheduler may still be running")
		return ctx.Err()
	}
}

// SetItems replaces the item sequence.
//
// Revalidation runs synchronously: chunks covering an unchanged prefix of the
// new sequence are kept with their sync state, everything from the first
// change onward is dropped and queued for repacking after the pack debounce.
//
// Parameters:
//   - items: New ordered item sequence (copied; the caller keeps ownership)
//
// Returns:
//   - error: ErrInvalidItems if the sequence has empty or duplicate IDs
func (s *Session) SetItems(items []Item) error {
	if err := validateItems(items); err != nil {
		return err
	}

	next := make([]types.Item, len(items))
	copy(next, items)

	s.mu.Lock()
	s.packer.Hydrate(next, s.params.CompressionLevel)
	kept, dropped := plan.Revalidate(s.store, next)
	s.items = next
	s.generation++
	s.driver.Forget(kept)
	s.metrics.RecordPlanInvalidation(kept, dropped)
	s.metrics.RecordPackingProgress(s.store.Cursor(), len(next))
	s.metrics.RecordDirtyChunks(s.store.DirtyCount())
	ctx := s.lifecycleCtxLocked()
	s.mu.Unlock()

	if dropped > 0 {
		s.logger.Info("item change invalidated chunks", "kept", kept, "dropped", dropped)
		s.emitPlanInvalidated(ctx, kept, dropped)
	}

	s.kickPack()
	s.kickSync()

	return nil
}

// SetParameters replaces the packing parameters.
//
// Any change to ceiling, margin, or compression level affects every size
// decision, so all chunks are invalidated and the sequence is repacked from
// the beginning. Setting identical parameters is a no-op.
//
// Parameters:
//   - p: New packing parameters
//
// Returns:
//   - error: ErrInvalidConfig for out-of-range values
func (s *Session) SetParameters(p Parameters) error {
	if p.CeilingMB <= 0 {
		return fmt.Errorf("%w: CeilingMB must be > 0, got %v", ErrInvalidConfig, p.CeilingMB)
	}
	if p.SafetyMarginPercent < 0 || p.SafetyMarginPercent > 50 {
		return fmt.Errorf("%w: SafetyMarginPercent (%v) must be in [0, 50]", ErrInvalidConfig, p.SafetyMarginPercent)
	}
	if !p.CompressionLevel.Valid() {
		return fmt.Errorf("%w: CompressionLevel %d is not a defined level", ErrInvalidConfig, p.CompressionLevel)
	}

	s.mu.Lock()
	if p.Equal(s.params) {
		s.mu.Unlock()

		return nil
	}

	old := s.params
	s.params = p
	if s.defaultEstimator && p.SafetyMarginPercent != old.SafetyMarginPercent {
		s.estimator.swap(estimate.NewHeuristic(p.SafetyMarginPercent, estimate.WithOverhead(s.cfg.ItemOverheadBytes)))
	}

	dropped := s.store.Truncate(0)
	s.generation++
	s.driver.Forget(0)
	s.metrics.RecordPlanInvalidation(0, dropped)
	s.metrics.RecordPackingProgress(0, len(s.items))
	ctx := s.lifecycleCtxLocked()
	s.mu.Unlock()

	s.logger.Info("parameters changed, repacking from scratch",
		"ceilingMb", p.CeilingMB, "marginPercent", p.SafetyMarginPercent,
		"level", p.CompressionLevel, "dropped", dropped)
	if dropped > 0 {
		s.emitPlanInvalidated(ctx, 0, dropped)
	}

	s.kickPack()

	return nil
}

// Chunks returns read-only snapshots of all chunks in output order.
func (s *Session) Chunks() []ChunkInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Snapshot()
}

// Progress returns the current packing and sync progress counters.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return types.Progress{
		PackedItems:  s.store.Cursor(),
		TotalItems:   len(s.items),
		SyncedChunks: s.store.SyncedCount(),
		TotalChunks:  s.store.Len(),
	}
}

// FullyPacked reports whether every item is covered by a finalized chunk.
func (s *Session) FullyPacked() bool {
	return s.Progress().FullyPacked()
}

// WaitIdle waits for the session to become idle: at least one chunk exists,
// every item is packed, and every chunk is synced. Requiring a chunk keeps an
// empty sequence from reporting idle before its placeholder volume has been
// packed and uploaded. Useful for tests and for flushing before shutdown.
//
// The returned channel receives exactly one value and is then closed:
//   - nil once the session is idle
//   - context.DeadlineExceeded if the timeout expires first
//
// Parameters:
//   - timeout: Maximum duration to wait
//
// Returns:
//   - <-chan error: A channel that receives the result
//
// Example:
//
//	if err := <-session.WaitIdle(time.Minute); err != nil {
//	    log.Printf("sync did not settle: %v", err)
//	}
func (s *Session) WaitIdle(timeout time.Duration) <-chan error {
	ch := make(chan error, 1) // Buffered to prevent goroutine leak

	go func() {
		defer close(ch)

		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		timeoutTimer := time.NewTimer(timeout)
		defer timeoutTimer.Stop()

		for {
			p := s.Progress()
			// A settled session always holds at least one chunk (an empty
			// sequence packs into a placeholder volume), so zero chunks means
			// packing has not produced its output yet.
			if p.TotalChunks > 0 && p.FullyPacked() && p.FullySynced() {
				ch <- nil
				return
			}

			select {
			case <-ticker.C:
			case <-timeoutTimer.C:
				ch <- context.DeadlineExceeded
				return
			}
		}
	}()

	return ch
}

// run is the scheduler loop. It alone mutates the chunk store; the debounce
// timers batch bursts of item changes into single repack/sync cycles.
func (s *Session) run() {
	defer s.wg.Done()

	packTimer := newStoppedTimer()
	defer packTimer.Stop()
	syncTimer := newStoppedTimer()
	defer syncTimer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-s.packKick:
			packTimer.Reset(s.cfg.PackDebounce)

		case <-s.syncKick:
			syncTimer.Reset(s.cfg.SyncDebounce)

		case <-packTimer.C:
			res := s.packStep()
			for res == packProgress && s.ctx.Err() == nil {
				res = s.packStep()
			}
			if res == packRetry {
				packTimer.Reset(s.cfg.PackDebounce)
			}
			// Finalized chunks (if any) are ready for upload.
			syncTimer.Reset(s.cfg.SyncDebounce)

		case <-syncTimer.C:
			if s.syncStep() {
				syncTimer.Reset(s.cfg.SyncDebounce)
			}
		}
	}
}

// packStep packs at most one chunk. Expensive calls run outside the lock;
// the result is discarded if the sequence changed while they ran.
func (s *Session) packStep() packResult {
	s.mu.Lock()
	gen := s.generation
	items := s.items
	cursor := s.store.Cursor()
	params := s.params
	ordinal := s.store.Len()
	ctx := s.lifecycleCtxLocked()
	s.mu.Unlock()

	// An empty sequence still produces one empty placeholder volume.
	if len(items) == 0 && ordinal == 0 {
		c := plan.Placeholder(fmt.Sprintf(s.cfg.TitlePattern, 1), params.CompressionLevel)

		s.mu.Lock()
		if gen != s.generation {
			s.mu.Unlock()

			return packDone
		}
		s.store.Append(c)
		info := c.Info()
		s.mu.Unlock()

		s.metrics.RecordChunkFinalized(0, 0, true)
		s.logger.Info("empty sequence, created placeholder volume", "title", info.Title)
		s.emitChunkFinalized(ctx, info)
		s.persist(ctx)

		return packDone
	}

	if cursor >= len(items) {
		return s.reoptimizeStep(ctx, gen, params)
	}

	chunk, err := s.packer.Step(ctx, items, cursor, params, ordinal)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale packing step", "ordinal", ordinal)

		return packDone
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("packing step failed, will retry", "ordinal", ordinal, "error", err)
		s.emitError(ctx, err)

		return packRetry
	}
	if chunk == nil {
		s.mu.Unlock()

		return packDone
	}

	s.store.Append(chunk)
	s.metrics.RecordPackingProgress(s.store.Cursor(), len(items))
	s.metrics.RecordDirtyChunks(s.store.DirtyCount())
	info := chunk.Info()
	more := s.store.Cursor() < len(items)
	s.mu.Unlock()

	s.emitChunkFinalized(ctx, info)
	s.persist(ctx)

	if more {
		return packProgress
	}

	return s.reoptimizeStep(ctx, gen, params)
}

// reoptimizeStep runs once packing reaches the end of the sequence. It
// retries compression for items that were packed with the raw-size fallback;
// a successful measurement changes the hydrated processed size, which
// revalidation treats as a content change, so the unoptimized chunks are
// dropped and repacked with exact sizes.
func (s *Session) reoptimizeStep(ctx context.Context, gen uint64, params Parameters) packResult {
	s.mu.Lock()
	if s.store.Cursor() > len(s.items) {
		// Restored chunks outrun the sequence until the first SetItems after
		// a restart; revalidating against it would treat them all as stale.
		s.mu.Unlock()

		return packDone
	}
	var pending []types.Item
	for _, c := range s.store.Chunks() {
		if !c.Optimized {
			pending = append(pending, c.Items...)
		}
	}
	s.mu.Unlock()

	if len(pending) == 0 {
		return packDone
	}

	attempted, measured := s.packer.Remeasure(ctx, pending, params.CompressionLevel)
	if measured == 0 {
		if attempted == 0 {
			return packDone
		}

		// Compression is still failing; try again after the pack debounce.
		return packRetry
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()

		return packDone
	}
	s.packer.Hydrate(s.items, params.CompressionLevel)
	kept, dropped := plan.Revalidate(s.store, s.items)
	s.generation++
	s.driver.Forget(kept)
	s.metrics.RecordPlanInvalidation(kept, dropped)
	s.metrics.RecordPackingProgress(s.store.Cursor(), len(s.items))
	s.metrics.RecordDirtyChunks(s.store.DirtyCount())
	s.mu.Unlock()

	s.logger.Info("compression recovered, repacking unoptimized chunks",
		"measured", measured, "dropped", dropped)
	if dropped > 0 {
		s.emitPlanInvalidated(ctx, kept, dropped)
	}

	return packProgress
}

// syncStep uploads at most one chunk. Returns true when more sync work
// remains (pending chunks, or a failed chunk to retry later).
func (s *Session) syncStep() bool {
	s.mu.Lock()
	ctx := s.lifecycleCtxLocked()
	now := time.Now()
	target := s.store.NextSyncTarget(func(c *plan.Chunk) bool {
		return !s.driver.Eligible(c.Ordinal, now)
	})
	if target == nil {
		more := s.store.DirtyCount() > 0
		s.mu.Unlock()

		return more
	}

	s.transitionLocked(ctx, target, types.ChunkUploading)
	job := syncer.Job{
		Ordinal:     target.Ordinal,
		Title:       target.Title,
		Items:       append([]types.Item(nil), target.Items...),
		ContentHash: target.ContentHash,
		Level:       s.params.CompressionLevel,
	}
	s.mu.Unlock()

	err := s.driver.Upload(ctx, job)

	s.mu.Lock()
	defer s.mu.Unlock()

	target = s.chunkAtLocked(job.Ordinal)
	if target == nil || target.State != types.ChunkUploading {
		// The chunk was dropped and possibly rebuilt while the upload was in
		// flight; the rebuilt chunk syncs on its own.
		return true
	}
	if target.ContentHash != job.ContentHash {
		// Content changed mid-upload; the artifact no longer matches.
		s.transitionLocked(ctx, target, types.ChunkDirty)
		s.metrics.RecordDirtyChunks(s.store.DirtyCount())

		return true
	}

	if err != nil {
		s.transitionLocked(ctx, target, types.ChunkDirty)
		s.metrics.RecordDirtyChunks(s.store.DirtyCount())
		s.emitError(ctx, err)

		return true
	}

	target.LastSyncedHash = job.ContentHash
	s.transitionLocked(ctx, target, types.ChunkSynced)
	s.metrics.RecordDirtyChunks(s.store.DirtyCount())
	more := s.store.NextSyncTarget(nil) != nil

	go s.persist(ctx)

	return more
}

// transitionLocked applies a chunk state transition. Caller holds s.mu.
func (s *Session) transitionLocked(ctx context.Context, c *plan.Chunk, to types.ChunkState) {
	from := c.State
	if from == to {
		return
	}
	c.State = to
	s.metrics.RecordChunkStateTransition(from, to)
	s.emitStateChanged(ctx, c.Ordinal, from, to)
}

// chunkAtLocked returns the stored chunk with the given ordinal, or nil.
// Caller holds s.mu.
func (s *Session) chunkAtLocked(ordinal int) *plan.Chunk {
	chunks := s.store.Chunks()
	if ordinal < 0 || ordinal >= len(chunks) {
		return nil
	}

	return chunks[ordinal]
}

// restore loads the persisted snapshot, if any. Best effort: a missing,
// unreadable, or parameter-mismatched snapshot just means a fresh repack.
func (s *Session) restore(ctx context.Context) {
	lctx, cancel := s.callContext(ctx)
	defer cancel()

	state, err := s.persistence.Load(lctx)
	if err != nil {
		if !errors.Is(err, types.ErrNoState) {
			s.logger.Warn("failed to load session snapshot, repacking from scratch", "error", err)
		}

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !state.Parameters.Equal(s.params) {
		s.logger.Info("persisted snapshot used different parameters, repacking from scratch")

		return
	}

	s.store.Restore(state)
	for _, c := range s.store.Chunks() {
		s.packer.Prime(c.Items)
	}
	s.logger.Info("restored session snapshot",
		"chunks", s.store.Len(), "cursor", s.store.Cursor())
}

// persist saves a session snapshot. Best effort: failures are logged and the
// next state change tries again.
func (s *Session) persist(ctx context.Context) {
	if s.persistence == nil {
		return
	}

	s.mu.Lock()
	state := s.store.State(s.params)
	s.mu.Unlock()

	sctx, cancel := s.callContext(ctx)
	defer cancel()

	if err := s.persistence.Save(sctx, state); err != nil {
		s.logger.Warn("failed to save session snapshot", "error", err)
	}
}

// lifecycleCtxLocked returns the session lifecycle context, or Background
// before Start. Caller holds s.mu.
func (s *Session) lifecycleCtxLocked() context.Context {
	if s.ctx != nil {
		return s.ctx
	}

	return context.Background()
}

func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OperationTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.cfg.OperationTimeout)
}

func (s *Session) kickPack() {
	select {
	case s.packKick <- struct{}{}:
	default:
	}
}

func (s *Session) kickSync() {
	select {
	case s.syncKick <- struct{}{}:
	default:
	}
}

// Hook emission helpers. Hooks run async so a slow callback never blocks the
// scheduler; errors are logged only.

func (s *Session) emitChunkFinalized(ctx context.Context, info ChunkInfo) {
	go func() {
		if err := s.hooks.OnChunkFinalized(ctx, info); err != nil {
			s.logger.Warn("OnChunkFinalized hook failed", "ordinal", info.Ordinal, "error", err)
		}
	}()
}

func (s *Session) emitStateChanged(ctx context.Context, ordinal int, from, to ChunkState) {
	go func() {
		if err := s.hooks.OnChunkStateChanged(ctx, ordinal, from, to); err != nil {
			s.logger.Warn("OnChunkStateChanged hook failed", "ordinal", ordinal, "error", err)
		}
	}()
}

func (s *Session) emitPlanInvalidated(ctx context.Context, kept, dropped int) {
	go func() {
		if err := s.hooks.OnPlanInvalidated(ctx, kept, dropped); err != nil {
			s.logger.Warn("OnPlanInvalidated hook failed", "error", err)
		}
	}()
}

func (s *Session) emitError(ctx context.Context, hookErr error) {
	go func() {
		if err := s.hooks.OnError(ctx, hookErr); err != nil {
			s.logger.Warn("OnError hook failed", "error", err)
		}
	}()
}

// validateItems rejects sequences the engine cannot pack deterministically.
func validateItems(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("%w: empty item ID", ErrInvalidItems)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: duplicate item ID %q", ErrInvalidItems, it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	return nil
}

// newStoppedTimer returns a timer that will not fire until Reset.
func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}

	return t
}

// swapEstimator is the estimator handed to the partitioner. It lets the
// session rebuild the default heuristic when the safety margin changes at
// runtime; reads happen on the scheduler goroutine, swaps on callers.
type swapEstimator struct {
	mu    sync.RWMutex
	inner SizeEstimator
}

func newSwapEstimator(inner SizeEstimator) *swapEstimator {
	return &swapEstimator{inner: inner}
}

func (e *swapEstimator) swap(inner SizeEstimator) {
	e.mu.Lock()
	e.inner = inner
	e.mu.Unlock()
}

// Estimate implements types.SizeEstimator.
func (e *swapEstimator) Estimate(item Item, level CompressionLevel) int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.inner.Estimate(item, level)
}
