package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/filereview/internal/logging"
	"github.com/dmitrijs2005/filereview/internal/server/blobstore"
	"github.com/dmitrijs2005/filereview/internal/server/config"
	"github.com/dmitrijs2005/filereview/internal/server/credentials"
	"github.com/dmitrijs2005/filereview/internal/server/preview"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type testEnv struct {
	m         repomanager.RepositoryManager
	users     *UserService
	uploads   *UploadService
	retrieval *RetrievalService
	blobs     blobstore.Store
	root      string
}

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		MaxUploadSize:               1 << 20,
		PreviewMaxRows:              100,
	}
}

func newTestEnv(t *testing.T, v credentials.Verifier, wrap func(blobstore.Store) blobstore.Store) *testEnv {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	m, err := repomanager.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	cfg := newTestConfig()
	root := filepath.Join(t.TempDir(), "uploads")

	var blobs blobstore.Store = blobstore.NewFSStore(root)
	if wrap != nil {
		blobs = wrap(blobs)
	}

	users := NewUserService(m.DB(), m, v, cfg)
	return &testEnv{
		m:         m,
		users:     users,
		uploads:   NewUploadService(m.DB(), m, users, blobs, cfg.MaxUploadSize, logging.Nop()),
		retrieval: NewRetrievalService(m.DB(), m, blobs, preview.NewParser(cfg.PreviewMaxRows)),
		blobs:     blobs,
		root:      root,
	}
}

func (e *testEnv) countFiles(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.m.DB().QueryRow(`SELECT COUNT(*) FROM files`).Scan(&n))
	return n
}

// failingStore fails every Write.
type failingStore struct {
	blobstore.Store
}

func (failingStore) Write(ctx context.Context, username, filename string, data []byte) error {
	return errors.New("disk full")
}
