// Package hooks provides default no-op lifecycle hooks.
package hooks

import (
	"context"

	"github.com/bjud-in-oss/bindery/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertion that NopHooks provides a complete callback set.
var _ types.Hooks = NewNop()

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnChunkFinalized:    h.OnChunkFinalized,
		OnChunkStateChanged: h.OnChunkStateChanged,
		OnPlanInvalidated:   h.OnPlanInvalidated,
		OnError:             h.OnError,
	}
}

// Fill replaces nil callbacks on the given hooks with no-ops.
//
// Parameters:
//   - h: Hooks to complete (may have any subset of callbacks set)
//
// Returns:
//   - types.Hooks: Hooks with every callback non-nil
func Fill(h types.Hooks) types.Hooks {
	nop := NewNop()
	if h.OnChunkFinalized == nil {
		h.OnChunkFinalized = nop.OnChunkFinalized
	}
	if h.OnChunkStateChanged == nil {
		h.OnChunkStateChanged = nop.OnChunkStateChanged
	}
	if h.OnPlanInvalidated == nil {
		h.OnPlanInvalidated = nop.OnPlanInvalidated
	}
	if h.OnError == nil {
		h.OnError = nop.OnError
	}

	return h
}

// OnChunkFinalized is a no-op implementation.
func (h *NopHooks) OnChunkFinalized(_ context.Context, _ types.ChunkInfo) error {
	return nil
}

// OnChunkStateChanged is a no-op implementation.
func (h *NopHooks) OnChunkStateChanged(_ context.Context, _ int, _, _ types.ChunkState) error {
	return nil
}

// OnPlanInvalidated is a no-op implementation.
func (h *NopHooks) OnPlanInvalidated(_ context.Context, _, _ int) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
