package types

// CompressionLevel selects how aggressively item content is recompressed
// before assembly. Higher levels trade fidelity for smaller output.
type CompressionLevel int

const (
	// CompressionNone keeps item content at its original size.
	CompressionNone CompressionLevel = iota

	// CompressionLow applies light recompression (near-lossless).
	CompressionLow

	// CompressionMedium is the default balance of size and quality.
	CompressionMedium

	// CompressionHigh applies aggressive recompression for minimum size.
	CompressionHigh
)

// String returns the string representation of the compression level.
func (l CompressionLevel) String() string {
	switch l {
	case CompressionNone:
		return "none"
	case CompressionLow:
		return "low"
	case CompressionMedium:
		return "medium"
	case CompressionHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Valid reports whether the level is one of the defined constants.
func (l CompressionLevel) Valid() bool {
	return l >= CompressionNone && l <= CompressionHigh
}

// Item is an opaque unit of source content (a scanned page, an image, an
// imported PDF) identified by a stable ID.
//
// Items are owned by the caller. The engine only reads size and fingerprint
// information; it never mutates caller-provided items and never touches the
// underlying content bytes (concrete Compressor/DocumentAssembler
// implementations fetch those through a ContentProvider).
type Item struct {
	// ID uniquely and stably identifies the item across edits.
	ID string `json:"id"`

	// Title is a human-readable label used in assembled output.
	Title string `json:"title"`

	// RawSize is the declared size of the uncompressed source in bytes.
	RawSize int64 `json:"rawSize"`

	// ProcessedSize is the exact size after compression at ProcessedLevel,
	// or 0 if the item has not been compressed yet.
	ProcessedSize int64 `json:"processedSize"`

	// ProcessedLevel is the compression level ProcessedSize was measured at.
	// Only meaningful when ProcessedSize > 0.
	ProcessedLevel CompressionLevel `json:"processedLevel"`

	// Fingerprint captures everything that affects the item's rendered
	// bytes: raw content, overlay/annotation state, and the compression
	// cache state. The caller must change it whenever any of those change.
	Fingerprint uint64 `json:"fingerprint"`
}

// SameContent reports whether q would render byte-identically to the item:
// same identity, same fingerprint, and same compression cache state.
//
// This is the equality test used by incremental revalidation; any difference
// invalidates the chunk containing the item.
func (it Item) SameContent(q Item) bool {
	return it.ID == q.ID &&
		it.Fingerprint == q.Fingerprint &&
		it.ProcessedSize == q.ProcessedSize &&
		it.ProcessedLevel == q.ProcessedLevel
}
