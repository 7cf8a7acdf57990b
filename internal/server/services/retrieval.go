package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/filex"
	"github.com/dmitrijs2005/filereview/internal/server/blobstore"
	"github.com/dmitrijs2005/filereview/internal/server/models"
	"github.com/dmitrijs2005/filereview/internal/server/preview"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/repomanager"
)

type RetrievalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	parser      *preview.Parser
}

func NewRetrievalService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, parser *preview.Parser) *RetrievalService {
	return &RetrievalService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		parser:      parser,
	}
}

// ListFiles returns every filename recorded for userID, oldest first,
// duplicates included.
func (s *RetrievalService) ListFiles(ctx context.Context, userID int64) ([]string, error) {
	names, err := s.repomanager.Files(s.db).ListFilenames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return names, nil
}

// UniqueFilenames drops repeated names, keeping the first occurrence.
func UniqueFilenames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Preview parses the stored blob of filename.
func (s *RetrievalService) Preview(ctx context.Context, username, filename string) (*preview.Table, error) {
	if !filex.IsSafeName(filename) {
		return nil, fmt.Errorf("%w: invalid file name %q", common.ErrorValidation, filename)
	}
	if preview.Classify(filename, "").Kind == preview.KindUnsupported {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filename)
	}

	data, err := s.blobs.Read(ctx, username, filename)
	if err != nil {
		return nil, err
	}

	return s.parser.Parse(filename, "", data, preview.SourceStored)
}

// PreviewUpload parses bytes that have just been received.
func (s *RetrievalService) PreviewUpload(up models.Upload) (*preview.Table, error) {
	return s.parser.Parse(up.Name, up.ContentType, up.Data, preview.SourceUpload)
}

// Download returns the stored bytes of filename ready to send.
func (s *RetrievalService) Download(ctx context.Context, username, filename string) (*blobstore.Payload, error) {
	if !filex.IsSafeName(username) || !filex.IsSafeName(filename) {
		return nil, fmt.Errorf("%w: invalid file name %q", common.ErrorValidation, filename)
	}
	return s.blobs.DownloadPayload(ctx, s.blobs.Path(username, filename), filename)
}
