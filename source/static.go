package source

import (
	"context"
	"sync"

	"github.com/bjud-in-oss/bindery/types"
)

// Static implements an item source with a fixed, updatable item list.
type Static struct {
	mu    sync.RWMutex
	items []types.Item
}

var _ types.ItemSource = (*Static)(nil)

// NewStatic creates a new static item source.
//
// The source returns a fixed item sequence; Update replaces it. Useful for
// testing and for callers that manage their own document list.
//
// Parameters:
//   - items: Initial ordered item sequence
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	items := []types.Item{
//	    {ID: "scan-001", RawSize: 2 << 20, Fingerprint: 0xa1},
//	    {ID: "scan-002", RawSize: 5 << 20, Fingerprint: 0xb2},
//	}
//	src := source.NewStatic(items)
//	session, err := bindery.NewSession(&cfg, c, a, cloud, bindery.WithItemSource(src))
//	if err != nil { /* handle */ }
func NewStatic(items []types.Item) *Static {
	s := &Static{}
	s.Update(items)

	return s
}

// Items returns the current item sequence.
//
// Returns:
//   - []types.Item: Copy of the current sequence
//   - error: Always nil (never fails)
func (s *Static) Items(_ context.Context) ([]types.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Item, len(s.items))
	copy(result, s.items)

	return result, nil
}

// Update replaces the item sequence.
//
// Parameters:
//   - items: New ordered item sequence (copied)
func (s *Static) Update(items []types.Item) {
	next := make([]types.Item, len(items))
	copy(next, items)

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}
