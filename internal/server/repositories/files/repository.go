package files

import (
	"context"

	"github.com/dmitrijs2005/filereview/internal/server/models"
)

// Repository is the file index: which filenames belong to which user.
type Repository interface {
	// Record appends a FileRecord; recording the same name twice yields two rows.
	Record(ctx context.Context, userID int64, filename string) (*models.FileRecord, error)
	// ListFilenames returns every recorded name in insertion order, duplicates included.
	ListFilenames(ctx context.Context, userID int64) ([]string, error)
}
