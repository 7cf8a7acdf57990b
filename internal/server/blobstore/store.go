// Package blobstore keeps the raw bytes of uploaded files, one object per
// (username, filename), under the layout uploads/<username>/<filename>.
//
// Two backends exist: FSStore on the local filesystem and S3Store on any
// S3-compatible object store. Neither is transactional with the file index.
package blobstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/filex"
)

const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// Store persists and returns blobs. Write overwrites silently.
type Store interface {
	Write(ctx context.Context, username, filename string, data []byte) error
	// Read returns common.ErrorNotFound when no blob exists.
	Read(ctx context.Context, username, filename string) ([]byte, error)
	// Path is the location Write uses for (username, filename).
	Path(username, filename string) string
	// DownloadPayload reads the blob at path and packages it for delivery
	// under displayName.
	DownloadPayload(ctx context.Context, path, displayName string) (*Payload, error)
}

// Payload is what a download hands to the transport.
type Payload struct {
	Data        []byte
	ContentType string
	Filename    string
}

func newPayload(data []byte, displayName string) *Payload {
	return &Payload{
		Data:        data,
		ContentType: common.OctetStreamContentType,
		Filename:    displayName,
	}
}

func checkNames(username, filename string) error {
	if !filex.IsSafeName(username) {
		return fmt.Errorf("%w: bad username %q", common.ErrorValidation, username)
	}
	if !filex.IsSafeName(filename) {
		return fmt.Errorf("%w: bad filename %q", common.ErrorValidation, filename)
	}
	return nil
}
