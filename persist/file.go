// Package persist provides file-backed session persistence using CBOR
// snapshots.
package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/bjud-in-oss/bindery/types"
)

// File stores session snapshots as a single CBOR file.
//
// Saves are atomic: the snapshot is written to a temporary file in the same
// directory and renamed over the previous one, so a crash mid-save never
// leaves a truncated snapshot behind.
type File struct {
	mu   sync.Mutex
	path string
}

var _ types.Persistence = (*File)(nil)

// NewFile creates a file persistence store at path. The parent directory is
// created if it does not exist.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	return &File{path: path}, nil
}

// Save implements types.Persistence.
func (f *File) Save(_ context.Context, state types.SessionState) error {
	data, err := cbor.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}

// Load implements types.Persistence.
func (f *File) Load(_ context.Context) (types.SessionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.SessionState{}, types.ErrNoState
		}

		return types.SessionState{}, fmt.Errorf("read snapshot: %w", err)
	}

	var state types.SessionState
	if err := cbor.Unmarshal(data, &state); err != nil {
		return types.SessionState{}, fmt.Errorf("decode snapshot: %w", err)
	}

	return state, nil
}
