package bindery

// Option configures a Session with optional dependencies.
type Option func(*sessionOptions)

// sessionOptions holds optional Session configuration.
type sessionOptions struct {
	logger      Logger
	metrics     MetricsCollector
	hooks       *Hooks
	persistence Persistence
	estimator   SizeEstimator
	source      ItemSource
	retrySeed   int64
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with slog via internal adapter)
//
// Returns:
//   - Option: Functional option for NewSession
//
// Example:
//
//	session, err := bindery.NewSession(&cfg, c, a, cloud, bindery.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewSession
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *sessionOptions) {
		o.metrics = metrics
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewSession
//
// Example:
//
//	hooks := &bindery.Hooks{
//	    OnChunkFinalized: func(ctx context.Context, chunk bindery.ChunkInfo) error {
//	        return notifyUI(chunk)
//	    },
//	}
//	session, err := bindery.NewSession(&cfg, c, a, cloud, bindery.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *sessionOptions) {
		o.hooks = hooks
	}
}

// WithPersistence sets a persistence backend for session snapshots.
//
// When set, the session saves a snapshot after every finalized chunk and
// every sync state change, and restores it on Start. Without persistence the
// session repacks from scratch on every start.
//
// Parameters:
//   - p: Persistence implementation
//
// Returns:
//   - Option: Functional option for NewSession
func WithPersistence(p Persistence) Option {
	return func(o *sessionOptions) {
		o.persistence = p
	}
}

// WithEstimator replaces the default heuristic size estimator.
//
// A custom estimator takes full ownership of margin handling: the session no
// longer rebuilds the estimator when SafetyMarginPercent changes at runtime.
//
// Parameters:
//   - e: SizeEstimator implementation
//
// Returns:
//   - Option: Functional option for NewSession
func WithEstimator(e SizeEstimator) Option {
	return func(o *sessionOptions) {
		o.estimator = e
	}
}

// WithItemSource sets an item source queried once at Start for the initial
// sequence. Later changes still go through SetItems.
//
// Parameters:
//   - src: ItemSource implementation
//
// Returns:
//   - Option: Functional option for NewSession
//
// Example:
//
//	src := source.NewStatic(items)
//	session, err := bindery.NewSession(&cfg, c, a, cloud, bindery.WithItemSource(src))
func WithItemSource(src ItemSource) Option {
	return func(o *sessionOptions) {
		o.source = src
	}
}

// WithRetrySeed seeds the upload retry jitter for deterministic tests.
// A zero seed (the default) uses the global PRNG.
//
// Parameters:
//   - seed: Non-zero seed for deterministic backoff jitter
//
// Returns:
//   - Option: Functional option for NewSession
func WithRetrySeed(seed int64) Option {
	return func(o *sessionOptions) {
		o.retrySeed = seed
	}
}
