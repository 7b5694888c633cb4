// Package estimate provides size estimators for the fast-fill packing phase.
//
// An estimator predicts an item's contribution to assembled output size
// without invoking the document assembler. Estimates are deliberately cheap
// and slightly pessimistic: the packer accumulates them until the running
// total crosses the verify threshold, and only then pays for one exact
// assembly.
//
// The default heuristic estimator uses the item's measured processed size
// when the compression level matches, and otherwise applies a per-level
// multiplier to the raw size, inflated by a safety margin and a fixed
// per-item packaging overhead.
package estimate
