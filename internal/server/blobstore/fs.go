package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/filex"
)

// FSStore writes blobs to <root>/<username>/<filename>.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) Path(username, filename string) string {
	return filepath.Join(s.root, username, filename)
}

func (s *FSStore) Write(ctx context.Context, username, filename string, data []byte) error {
	if err := checkNames(username, filename); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := filex.EnsureDir(s.root, username)
	if err != nil {
		return fmt.Errorf("blob dir: %w", err)
	}

	return filex.WriteFileAtomic(filepath.Join(dir, filename), data, 0o640)
}

func (s *FSStore) Read(ctx context.Context, username, filename string) ([]byte, error) {
	if err := checkNames(username, filename); err != nil {
		return nil, err
	}
	return s.readPath(ctx, s.Path(username, filename))
}

func (s *FSStore) DownloadPayload(ctx context.Context, path, displayName string) (*Payload, error) {
	data, err := s.readPath(ctx, path)
	if err != nil {
		return nil, err
	}
	return newPayload(data, displayName), nil
}

func (s *FSStore) readPath(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blob read: %w", err)
	}
	return data, nil
}
