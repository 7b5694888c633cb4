package estimate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery/types"
)

func TestHeuristicUsesProcessedSizeOnLevelMatch(t *testing.T) {
	t.Parallel()

	est := NewHeuristic(0, WithOverhead(0))
	item := types.Item{
		RawSize:        1000,
		ProcessedSize:  400,
		ProcessedLevel: types.CompressionMedium,
	}

	// Matching level: exact processed size is used.
	require.EqualValues(t, 400, est.Estimate(item, types.CompressionMedium))

	// Level mismatch: falls back to raw size times the level multiplier.
	require.EqualValues(t, 450, est.Estimate(item, types.CompressionHigh))
}

func TestHeuristicAppliesMarginAndOverhead(t *testing.T) {
	t.Parallel()

	est := NewHeuristic(5, WithOverhead(100))
	item := types.Item{RawSize: 1000}

	// 1000 * 1.0 (none) * 1.05 + 100
	require.EqualValues(t, 1150, est.Estimate(item, types.CompressionNone))
}

func TestHeuristicMultiplierOverride(t *testing.T) {
	t.Parallel()

	est := NewHeuristic(0, WithOverhead(0), WithMultiplier(types.CompressionHigh, 0.1))
	item := types.Item{RawSize: 1000}

	require.EqualValues(t, 100, est.Estimate(item, types.CompressionHigh))
}

func TestHeuristicNegativeMarginClamped(t *testing.T) {
	t.Parallel()

	est := NewHeuristic(-10, WithOverhead(0))
	item := types.Item{RawSize: 1000}

	require.EqualValues(t, 1000, est.Estimate(item, types.CompressionNone))
}

func TestHeuristicScenarioEstimate(t *testing.T) {
	t.Parallel()

	// Five items of ~3 MB each with a 5% margin estimate to ~3.15 MB each,
	// so four of them stay under a 14 MB ceiling and a fifth would not.
	est := NewHeuristic(5, WithOverhead(0))
	item := types.Item{
		RawSize:        3 * 1024 * 1024,
		ProcessedSize:  3 * 1024 * 1024,
		ProcessedLevel: types.CompressionMedium,
	}

	per := est.Estimate(item, types.CompressionMedium)
	ceiling := int64(14 * 1024 * 1024)
	require.Less(t, 4*per, ceiling)
	require.Greater(t, 5*per, ceiling)
}
