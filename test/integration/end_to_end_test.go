//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bjud-in-oss/bindery"
	"github.com/bjud-in-oss/bindery/assembler"
	"github.com/bjud-in-oss/bindery/cloud"
	"github.com/bjud-in-oss/bindery/compressor"
	"github.com/bjud-in-oss/bindery/internal/logger"
	"github.com/bjud-in-oss/bindery/persist"
	"github.com/bjud-in-oss/bindery/source"
	binderytest "github.com/bjud-in-oss/bindery/testing"
)

// writeDocs fills a directory with n compressible document files of size bytes each.
func writeDocs(t *testing.T, dir string, n int, size int) {
	t.Helper()

	page := bytes.Repeat([]byte("lorem ipsum dolor sit amet "), size/27+1)
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, string(rune('a'+i))+".pdf")
		require.NoError(t, os.WriteFile(name, page[:size], 0o600))
	}
}

// TestEndToEnd_PackAndSync runs the full stack: directory source, zstd
// compressor, gofpdf assembler, JetStream object storage, and CBOR snapshots.
func TestEndToEnd_PackAndSync(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	_, nc := binderytest.StartEmbeddedNATS(t)

	docDir := t.TempDir()
	writeDocs(t, docDir, 4, 256*1024)

	docs := source.NewDir(docDir)

	comp, err := compressor.NewZstd(docs)
	require.NoError(t, err)
	defer comp.Close()

	asm, err := assembler.NewFpdf(docs)
	require.NoError(t, err)
	defer asm.Close()

	store, err := cloud.NewStore(binderytest.JetStream(t, nc))
	require.NoError(t, err)

	snapshots, err := persist.NewFile(filepath.Join(t.TempDir(), "state.cbor"))
	require.NoError(t, err)

	cfg := bindery.TestConfig()
	cfg.CeilingMB = 1
	cfg.ContainerID = "integration-volumes"

	session, err := bindery.NewSession(&cfg, comp, asm, store,
		bindery.WithItemSource(docs),
		bindery.WithPersistence(snapshots),
		bindery.WithLogger(logger.NewTest(t)),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, session.Start(ctx))
	defer func() { _ = session.Stop(context.Background()) }()

	require.NoError(t, <-session.WaitIdle(30*time.Second))

	chunks := session.Chunks()
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		require.Equal(t, bindery.ChunkSynced, chunk.State)

		id, err := store.Exists(ctx, cfg.ContainerID, chunk.Title+".pdf")
		require.NoError(t, err)
		require.NotEmpty(t, id, "artifact for %s should exist", chunk.Title)
	}

	progress := session.Progress()
	require.True(t, progress.FullySynced())
	require.Equal(t, 4, progress.TotalItems)
}

// TestEndToEnd_RestartResumesFromSnapshot verifies a second session restores
// the plan from the CBOR snapshot and does not re-upload unchanged volumes.
func TestEndToEnd_RestartResumesFromSnapshot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	_, nc := binderytest.StartEmbeddedNATS(t)

	docDir := t.TempDir()
	writeDocs(t, docDir, 3, 128*1024)

	docs := source.NewDir(docDir)

	comp, err := compressor.NewZstd(docs)
	require.NoError(t, err)
	defer comp.Close()

	asm, err := assembler.NewFpdf(docs)
	require.NoError(t, err)
	defer asm.Close()

	store, err := cloud.NewStore(binderytest.JetStream(t, nc))
	require.NoError(t, err)

	snapshotPath := filepath.Join(t.TempDir(), "state.cbor")
	snapshots, err := persist.NewFile(snapshotPath)
	require.NoError(t, err)

	cfg := bindery.TestConfig()
	cfg.CeilingMB = 1
	cfg.ContainerID = "restart-volumes"

	newSession := func() *bindery.Session {
		s, err := bindery.NewSession(&cfg, comp, asm, store,
			bindery.WithItemSource(docs),
			bindery.WithPersistence(snapshots),
			bindery.WithLogger(logger.NewTest(t)),
		)
		require.NoError(t, err)

		return s
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first := newSession()
	require.NoError(t, first.Start(ctx))
	require.NoError(t, <-first.WaitIdle(30*time.Second))
	firstChunks := first.Chunks()
	require.NoError(t, first.Stop(ctx))

	second := newSession()
	require.NoError(t, second.Start(ctx))
	defer func() { _ = second.Stop(context.Background()) }()
	require.NoError(t, <-second.WaitIdle(30*time.Second))

	secondChunks := second.Chunks()
	require.Len(t, secondChunks, len(firstChunks))
	for i := range firstChunks {
		require.Equal(t, firstChunks[i].ContentHash, secondChunks[i].ContentHash)
		require.Equal(t, bindery.ChunkSynced, secondChunks[i].State)
	}
}
