package estimate

import "github.com/bjud-in-oss/bindery/types"

// Default tuning values, derived from typical scan/image recompression ratios.
const (
	// DefaultOverheadBytes is the fixed per-item packaging overhead added to
	// every estimate (page object, cross-reference entries, metadata).
	DefaultOverheadBytes int64 = 2048

	// DefaultSafetyMarginPercent inflates estimates so the fast-fill phase
	// stops before the real total reaches the ceiling.
	DefaultSafetyMarginPercent = 5.0
)

// defaultMultipliers maps each compression level to the expected ratio of
// processed size to raw size.
var defaultMultipliers = map[types.CompressionLevel]float64{
	types.CompressionNone:   1.0,
	types.CompressionLow:    0.85,
	types.CompressionMedium: 0.65,
	types.CompressionHigh:   0.45,
}

// Heuristic is the default SizeEstimator implementation.
//
// It never invokes the document assembler. When an item has already been
// compressed at the requested level its exact processed size is used;
// otherwise the raw size is scaled by a level multiplier. Either way the
// result is inflated by the safety margin and the per-item overhead.
type Heuristic struct {
	marginPercent float64
	overheadBytes int64
	multipliers   map[types.CompressionLevel]float64
}

// Compile-time assertion that Heuristic implements SizeEstimator.
var _ types.SizeEstimator = (*Heuristic)(nil)

// HeuristicOption customizes a Heuristic estimator.
type HeuristicOption func(*Heuristic)

// WithOverhead overrides the fixed per-item packaging overhead.
func WithOverhead(bytes int64) HeuristicOption {
	return func(h *Heuristic) {
		h.overheadBytes = bytes
	}
}

// WithMultiplier overrides the compression ratio assumed for one level.
func WithMultiplier(level types.CompressionLevel, ratio float64) HeuristicOption {
	return func(h *Heuristic) {
		h.multipliers[level] = ratio
	}
}

// NewHeuristic creates the default size estimator.
//
// Parameters:
//   - marginPercent: Safety margin percentage applied to every estimate
//     (negative values are treated as 0)
//   - opts: Optional tuning overrides
//
// Returns:
//   - *Heuristic: Initialized estimator
//
// Example:
//
//	est := estimate.NewHeuristic(5.0)
//	size := est.Estimate(item, types.CompressionMedium)
func NewHeuristic(marginPercent float64, opts ...HeuristicOption) *Heuristic {
	if marginPercent < 0 {
		marginPercent = 0
	}

	h := &Heuristic{
		marginPercent: marginPercent,
		overheadBytes: DefaultOverheadBytes,
		multipliers:   make(map[types.CompressionLevel]float64, len(defaultMultipliers)),
	}
	for level, ratio := range defaultMultipliers {
		h.multipliers[level] = ratio
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Estimate returns the predicted packaged size of the item in bytes.
//
// Parameters:
//   - item: Item to estimate
//   - level: Target compression level
//
// Returns:
//   - int64: Estimated packaged size including margin and overhead
func (h *Heuristic) Estimate(item types.Item, level types.CompressionLevel) int64 {
	var base float64
	if item.ProcessedSize > 0 && item.ProcessedLevel == level {
		base = float64(item.ProcessedSize)
	} else {
		ratio, ok := h.multipliers[level]
		if !ok {
			ratio = 1.0
		}
		base = float64(item.RawSize) * ratio
	}

	withMargin := base * (1 + h.marginPercent/100)

	return int64(withMargin) + h.overheadBytes
}
