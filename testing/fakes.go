package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bjud-in-oss/bindery/types"
)

// ErrInjected is returned by fakes when a failure has been injected.
var ErrInjected = errors.New("injected failure")

// compressRatios mirror realistic recompression behavior for fakes.
var compressRatios = map[types.CompressionLevel]float64{
	types.CompressionNone:   1.0,
	types.CompressionLow:    0.8,
	types.CompressionMedium: 0.6,
	types.CompressionHigh:   0.4,
}

// FakeCompressor is an in-memory Compressor with per-item failure injection.
//
// Processed size defaults to RawSize scaled by a per-level ratio; exact
// per-item sizes can be pinned with SetSize.
type FakeCompressor struct {
	mu      sync.Mutex
	calls   int
	failIDs map[string]int
	sizes   map[string]int64
}

var _ types.Compressor = (*FakeCompressor)(nil)

// NewFakeCompressor creates a fake compressor.
func NewFakeCompressor() *FakeCompressor {
	return &FakeCompressor{
		failIDs: make(map[string]int),
		sizes:   make(map[string]int64),
	}
}

// SetSize pins the processed size returned for an item regardless of level.
func (f *FakeCompressor) SetSize(itemID string, size int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sizes[itemID] = size
}

// FailItem makes the next n Process calls for the item fail.
func (f *FakeCompressor) FailItem(itemID string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failIDs[itemID] = n
}

// Calls returns the number of Process invocations.
func (f *FakeCompressor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

// Process implements types.Compressor.
func (f *FakeCompressor) Process(_ context.Context, item types.Item, level types.CompressionLevel) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if n := f.failIDs[item.ID]; n > 0 {
		f.failIDs[item.ID] = n - 1

		return 0, fmt.Errorf("%w: compress %s", ErrInjected, item.ID)
	}
	if size, ok := f.sizes[item.ID]; ok {
		return size, nil
	}

	return int64(float64(item.RawSize) * compressRatios[level]), nil
}

// FakeAssembler is an in-memory DocumentAssembler.
//
// The assembled artifact length is the sum of each item's effective size
// (processed size when measured at the requested level, raw size otherwise)
// plus fixed base and per-item overheads, making boundaries predictable in
// tests.
type FakeAssembler struct {
	mu sync.Mutex

	// BaseOverhead is added once per artifact.
	BaseOverhead int64

	// PerItemOverhead is added for every packed item.
	PerItemOverhead int64

	calls     int
	failNext  int
	failCalls map[int]bool
}

var _ types.DocumentAssembler = (*FakeAssembler)(nil)

// NewFakeAssembler creates a fake assembler with small fixed overheads.
func NewFakeAssembler() *FakeAssembler {
	return &FakeAssembler{BaseOverhead: 512, PerItemOverhead: 64, failCalls: make(map[int]bool)}
}

// FailNext makes the next n Assemble calls fail.
func (f *FakeAssembler) FailNext(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = n
}

// FailOnCall makes the n-th Assemble call (1-based, counted from creation) fail.
func (f *FakeAssembler) FailOnCall(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCalls[n] = true
}

// Calls returns the number of Assemble invocations.
func (f *FakeAssembler) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

// Assemble implements types.DocumentAssembler.
func (f *FakeAssembler) Assemble(_ context.Context, items []types.Item, _ string, level types.CompressionLevel) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failNext > 0 || f.failCalls[f.calls] {
		if f.failNext > 0 {
			f.failNext--
		}

		return nil, fmt.Errorf("%w: assemble", ErrInjected)
	}

	size := f.BaseOverhead
	for _, it := range items {
		if it.ProcessedSize > 0 && it.ProcessedLevel == level {
			size += it.ProcessedSize
		} else {
			size += it.RawSize
		}
		size += f.PerItemOverhead
	}

	return make([]byte, size), nil
}

// FakeCloudStore is an in-memory CloudStore with failure injection and an
// upload log for asserting idempotence.
type FakeCloudStore struct {
	mu       sync.Mutex
	objects  map[string]map[string][]byte // containerID -> filename -> data
	uploads  []string                     // "container/filename" per successful upload
	failNext int
}

var _ types.CloudStore = (*FakeCloudStore)(nil)

// NewFakeCloudStore creates an empty fake cloud store.
func NewFakeCloudStore() *FakeCloudStore {
	return &FakeCloudStore{objects: make(map[string]map[string][]byte)}
}

// FailNext makes the next n Upload calls fail.
func (f *FakeCloudStore) FailNext(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = n
}

// Uploads returns the log of successful uploads as "container/filename".
func (f *FakeCloudStore) Uploads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.uploads))
	copy(out, f.uploads)

	return out
}

// Object returns the stored bytes for a filename, or nil.
func (f *FakeCloudStore) Object(containerID, filename string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.objects[containerID][filename]
}

// Upload implements types.CloudStore.
func (f *FakeCloudStore) Upload(_ context.Context, containerID, filename string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNext > 0 {
		f.failNext--

		return fmt.Errorf("%w: upload %s", ErrInjected, filename)
	}

	container, ok := f.objects[containerID]
	if !ok {
		container = make(map[string][]byte)
		f.objects[containerID] = container
	}
	container[filename] = append([]byte(nil), data...)
	f.uploads = append(f.uploads, containerID+"/"+filename)

	return nil
}

// Exists implements types.CloudStore.
func (f *FakeCloudStore) Exists(_ context.Context, containerID, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.objects[containerID][filename]; ok {
		return containerID + "/" + filename, nil
	}

	return "", nil
}

// FakePersistence is an in-memory Persistence implementation.
type FakePersistence struct {
	mu    sync.Mutex
	state *types.SessionState
	saves int
}

var _ types.Persistence = (*FakePersistence)(nil)

// NewFakePersistence creates an empty fake persistence store.
func NewFakePersistence() *FakePersistence {
	return &FakePersistence{}
}

// Saves returns the number of Save invocations.
func (f *FakePersistence) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.saves
}

// Save implements types.Persistence.
func (f *FakePersistence) Save(_ context.Context, state types.SessionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := state
	cp.Chunks = append([]types.ChunkRecord(nil), state.Chunks...)
	f.state = &cp
	f.saves++

	return nil
}

// Load implements types.Persistence.
func (f *FakePersistence) Load(_ context.Context) (types.SessionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == nil {
		return types.SessionState{}, types.ErrNoState
	}

	return *f.state, nil
}

// FakeContentProvider resolves item IDs from an in-memory map.
type FakeContentProvider struct {
	mu      sync.Mutex
	content map[string][]byte
}

var _ types.ContentProvider = (*FakeContentProvider)(nil)

// NewFakeContentProvider creates a content provider over the given map.
func NewFakeContentProvider(content map[string][]byte) *FakeContentProvider {
	if content == nil {
		content = make(map[string][]byte)
	}

	return &FakeContentProvider{content: content}
}

// Set stores content for an item ID.
func (f *FakeContentProvider) Set(itemID string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content[itemID] = data
}

// Content implements types.ContentProvider.
func (f *FakeContentProvider) Content(_ context.Context, itemID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.content[itemID]
	if !ok {
		return nil, fmt.Errorf("no content for item %q", itemID)
	}

	return append([]byte(nil), data...), nil
}
