// Package cloud provides a CloudStore backed by NATS JetStream object
// storage.
package cloud

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/zeebo/blake3"

	"github.com/bjud-in-oss/bindery/types"
)

// digestHeader is the object metadata key carrying the blake3 content digest.
const digestHeader = "bindery-digest-blake3"

// Store uploads assembled volumes to JetStream object store buckets, one
// bucket per container ID.
//
// Each upload records a blake3 digest of the artifact in object metadata.
// Re-uploading an artifact whose digest matches the stored object is skipped,
// which makes retries after partial sync failures cheap.
type Store struct {
	js jetstream.JetStream

	mu      sync.Mutex
	buckets map[string]jetstream.ObjectStore
}

var _ types.CloudStore = (*Store)(nil)

// NewStore creates a cloud store on an existing JetStream context.
//
// Parameters:
//   - js: JetStream context from jetstream.New
//
// Returns:
//   - *Store: The cloud store instance
//   - error: If js is nil
func NewStore(js jetstream.JetStream) (*Store, error) {
	if js == nil {
		return nil, fmt.Errorf("jetstream context is required")
	}

	return &Store{js: js, buckets: make(map[string]jetstream.ObjectStore)}, nil
}

// Upload implements types.CloudStore.
func (s *Store) Upload(ctx context.Context, containerID, filename string, data []byte) error {
	bucket, err := s.bucket(ctx, containerID)
	if err != nil {
		return err
	}

	sum := blake3.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	info, err := bucket.GetInfo(ctx, filename)
	if err == nil && info.Metadata[digestHeader] == digest {
		return nil
	}

	meta := jetstream.ObjectMeta{
		Name:     filename,
		Metadata: map[string]string{digestHeader: digest},
	}
	if _, err := bucket.Put(ctx, meta, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upload %s/%s: %w", containerID, filename, err)
	}

	return nil
}

// Exists implements types.CloudStore.
func (s *Store) Exists(ctx context.Context, containerID, filename string) (string, error) {
	bucket, err := s.bucket(ctx, containerID)
	if err != nil {
		return "", err
	}

	info, err := bucket.GetInfo(ctx, filename)
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return "", nil
		}

		return "", fmt.Errorf("stat %s/%s: %w", containerID, filename, err)
	}

	return info.NUID, nil
}

// bucket returns the object store bucket for a container, creating it on
// first use.
func (s *Store) bucket(ctx context.Context, containerID string) (jetstream.ObjectStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.buckets[containerID]; ok {
		return bucket, nil
	}

	bucket, err := s.js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      containerID,
		Description: "bindery volume artifacts",
	})
	if err != nil {
		return nil, fmt.Errorf("open object store bucket %q: %w", containerID, err)
	}
	s.buckets[containerID] = bucket

	return bucket, nil
}
