package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/dbx"
	"github.com/dmitrijs2005/filereview/internal/filex"
	"github.com/dmitrijs2005/filereview/internal/logging"
	"github.com/dmitrijs2005/filereview/internal/server/blobstore"
	"github.com/dmitrijs2005/filereview/internal/server/models"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/repomanager"
)

// AllowedExtensions is the upload allow-list.
var AllowedExtensions = []string{".txt", ".csv", ".xlsx"}

type UploadService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	users         *UserService
	blobs         blobstore.Store
	maxUploadSize int64
	logger        logging.Logger
}

func NewUploadService(db *sql.DB, m repomanager.RepositoryManager, users *UserService, blobs blobstore.Store,
	maxUploadSize int64, logger logging.Logger) *UploadService {
	return &UploadService{
		db:            db,
		repomanager:   m,
		users:         users,
		blobs:         blobs,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("module", "upload"),
	}
}

// ValidateUpload checks the name against the allow-list and size against
// the configured limit (0 disables the limit).
func (s *UploadService) ValidateUpload(name string, size int64) error {
	if !filex.IsSafeName(name) || strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: invalid file name %q", common.ErrorValidation, name)
	}

	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, a := range AllowedExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %q", common.ErrExtensionNotAllowed, ext)
	}

	if s.maxUploadSize > 0 && size > s.maxUploadSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", common.ErrUploadTooLarge, size, s.maxUploadSize)
	}
	return nil
}

// Ingest records the upload for username and stores its bytes. The record
// and the blob write share one transaction: a failed write leaves no record.
// A failed commit after a successful write leaves the blob behind.
func (s *UploadService) Ingest(ctx context.Context, username string, up models.Upload) (*models.FileRecord, error) {
	if err := s.ValidateUpload(up.Name, int64(len(up.Data))); err != nil {
		return nil, err
	}

	userID, err := s.users.IDFor(ctx, username)
	if err != nil {
		return nil, err
	}

	var rec *models.FileRecord
	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		rec, err = s.repomanager.Files(tx).Record(ctx, userID, up.Name)
		if err != nil {
			return err
		}
		return s.blobs.Write(ctx, username, up.Name, up.Data)
	})
	if err != nil {
		s.logger.Error(ctx, "ingest failed", "username", username, "filename", up.Name, "error", err)
		return nil, fmt.Errorf("ingest %s: %w", up.Name, err)
	}

	s.logger.Info(ctx, "file ingested", "username", username, "filename", up.Name, "size", len(up.Data))
	return rec, nil
}
