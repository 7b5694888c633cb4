package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bjud-in-oss/bindery/internal/fingerprint"
	"github.com/bjud-in-oss/bindery/types"
)

// defaultExtensions are the file types treated as packable documents.
var defaultExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// Dir implements an item source that scans a directory for documents.
//
// Each matching file becomes one item: the relative path is the stable ID,
// the file size is the raw size, and the fingerprint is a content hash, so
// editing a file in place invalidates exactly the chunks containing it.
// Files are ordered by relative path for a deterministic sequence.
type Dir struct {
	root       string
	extensions map[string]bool
}

var (
	_ types.ItemSource      = (*Dir)(nil)
	_ types.ContentProvider = (*Dir)(nil)
)

// DirOption configures a Dir source.
type DirOption func(*Dir)

// WithExtensions replaces the default set of packable file extensions.
// Extensions must include the leading dot and are matched case-insensitively.
func WithExtensions(exts ...string) DirOption {
	return func(d *Dir) {
		d.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			d.extensions[strings.ToLower(ext)] = true
		}
	}
}

// NewDir creates a directory-scanning item source rooted at root.
//
// Parameters:
//   - root: Directory to scan recursively
//   - opts: Optional configuration
//
// Returns:
//   - *Dir: Initialized directory source
func NewDir(root string, opts ...DirOption) *Dir {
	d := &Dir{root: root, extensions: defaultExtensions}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Items scans the directory and returns one item per matching file, ordered
// by relative path.
//
// Parameters:
//   - ctx: Context for cancellation between files
//
// Returns:
//   - []types.Item: Discovered items with content fingerprints
//   - error: Filesystem error, or context cancellation
func (d *Dir) Items(ctx context.Context) ([]types.Item, error) {
	var items []types.Item

	err := filepath.WalkDir(d.root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			return nil
		}
		if !d.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}

		items = append(items, types.Item{
			ID:          filepath.ToSlash(rel),
			Title:       strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			RawSize:     int64(len(data)),
			Fingerprint: fingerprint.Item(data),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", d.root, err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

// Content returns the raw bytes of the file behind an item ID, making Dir
// usable as the content provider for compressor and assembler
// implementations.
func (d *Dir) Content(_ context.Context, itemID string) ([]byte, error) {
	rel := filepath.FromSlash(itemID)
	if rel == "" || filepath.IsAbs(rel) || strings.Contains(rel, "..") {
		return nil, fmt.Errorf("invalid item ID %q", itemID)
	}

	data, err := os.ReadFile(filepath.Join(d.root, rel))
	if err != nil {
		return nil, fmt.Errorf("read item %s: %w", itemID, err)
	}

	return data, nil
}
