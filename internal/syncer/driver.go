// Package syncer implements the best-effort upload pipeline that keeps each
// chunk's persisted artifact consistent with its in-memory content.
package syncer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bjud-in-oss/bindery/types"
)

// backoffMultiplier controls retry delay growth for a repeatedly failing chunk.
const backoffMultiplier = 2.0

// Job is the snapshot of one chunk handed to the driver for upload. The
// caller captures it under the session lock; the driver never touches the
// chunk store directly, so a job stays valid even if the chunk is
// invalidated while the upload is in flight (the caller discards the stale
// result).
type Job struct {
	// Ordinal identifies the chunk for retry bookkeeping.
	Ordinal int

	// Title determines the artifact filename.
	Title string

	// Items is the chunk's item list at capture time.
	Items []types.Item

	// ContentHash is the chunk's content hash at capture time.
	ContentHash uint64

	// Level is the session compression level at capture time.
	Level types.CompressionLevel
}

// Driver assembles and uploads chunk artifacts.
//
// A failed chunk is retried indefinitely with decorrelated-jitter backoff; a
// failure on one chunk never blocks uploads of later chunks, since the
// caller skips ineligible ordinals when picking the next target.
type Driver struct {
	assembler   types.DocumentAssembler
	cloud       types.CloudStore
	containerID string
	logger      types.Logger
	metrics     types.SyncMetrics

	retryBase time.Duration
	retryMax  time.Duration
	opTimeout time.Duration
	rng       *rand.Rand

	mu      sync.Mutex
	retries map[int]retryState
}

type retryState struct {
	delay     time.Duration
	notBefore time.Time
}

// NewDriver creates an upload driver.
//
// Parameters:
//   - assembler: Document assembler producing artifact bytes
//   - cloud: Cloud store receiving artifacts
//   - containerID: Target container for all uploads
//   - retryBase: Initial retry delay after a failure
//   - retryMax: Retry delay cap
//   - opTimeout: Per external call timeout (0 disables)
//   - retrySeed: Seed for deterministic retry jitter (0 = global PRNG)
//   - logger: Logger for upload outcomes
//   - metrics: Sync metrics collector
func NewDriver(
	assembler types.DocumentAssembler,
	cloud types.CloudStore,
	containerID string,
	retryBase, retryMax, opTimeout time.Duration,
	retrySeed int64,
	logger types.Logger,
	metrics types.SyncMetrics,
) *Driver {
	return &Driver{
		assembler:   assembler,
		cloud:       cloud,
		containerID: containerID,
		logger:      logger,
		metrics:     metrics,
		retryBase:   retryBase,
		retryMax:    retryMax,
		opTimeout:   opTimeout,
		rng:         newRetryRNG(retrySeed),
		retries:     make(map[int]retryState),
	}
}

// Filename returns the deterministic artifact filename for a chunk title.
func Filename(title string) string {
	return title + ".pdf"
}

// Eligible reports whether the chunk at ordinal may be attempted now, i.e.
// its retry backoff (if any) has elapsed.
func (d *Driver) Eligible(ordinal int, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, ok := d.retries[ordinal]
	if !ok {
		return true
	}

	return !now.Before(st.notBefore)
}

// Forget clears retry state for ordinals >= from. Called when revalidation
// drops chunks, so a rebuilt chunk starts with a clean retry schedule.
func (d *Driver) Forget(from int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for ordinal := range d.retries {
		if ordinal >= from {
			delete(d.retries, ordinal)
		}
	}
}

// Upload assembles the job's artifact and uploads it.
//
// On success the chunk's retry state is cleared. On failure the retry delay
// grows with jitter up to the configured cap, and the error is returned for
// the caller to mark the chunk Dirty.
//
// Parameters:
//   - ctx: Context for the assembler and cloud store calls
//   - job: Chunk snapshot captured under the session lock
//
// Returns:
//   - error: Assembly or upload failure (wrapped ErrUploadFailed)
func (d *Driver) Upload(ctx context.Context, job Job) error {
	start := time.Now()
	err := d.upload(ctx, job)
	d.metrics.RecordUploadDuration(time.Since(start).Seconds(), err == nil)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		st := d.retries[job.Ordinal]
		st.delay = nextBackoff(st.delay, d.retryBase, backoffMultiplier, d.retryMax, d.rng)
		st.notBefore = time.Now().Add(st.delay)
		d.retries[job.Ordinal] = st

		d.logger.Warn("chunk upload failed, will retry",
			"ordinal", job.Ordinal, "title", job.Title,
			"retryIn", st.delay, "error", err)

		return err
	}

	delete(d.retries, job.Ordinal)
	d.logger.Info("chunk uploaded",
		"ordinal", job.Ordinal, "title", job.Title,
		"filename", Filename(job.Title), "duration", time.Since(start))

	return nil
}

func (d *Driver) upload(ctx context.Context, job Job) error {
	actx, cancel := d.callContext(ctx)
	defer cancel()

	data, err := d.assembler.Assemble(actx, job.Items, job.Title, job.Level)
	if err != nil {
		return fmt.Errorf("%w: assemble %q: %s", types.ErrUploadFailed, job.Title, err.Error())
	}

	uctx, cancel := d.callContext(ctx)
	defer cancel()

	if err := d.cloud.Upload(uctx, d.containerID, Filename(job.Title), data); err != nil {
		return fmt.Errorf("%w: %s", types.ErrUploadFailed, err.Error())
	}

	return nil
}

func (d *Driver) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.opTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d.opTimeout)
}
