package files

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filereview/internal/dbx"
	"github.com/dmitrijs2005/filereview/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, userID int64, filename string) (*models.FileRecord, error) {

	query :=
		`INSERT INTO files (user_id, filename)
		VALUES ($1, $2)
		RETURNING id
		 `

	rec := &models.FileRecord{UserID: userID, Filename: filename}
	if err := r.db.QueryRowContext(ctx, query, userID, filename).Scan(&rec.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) ListFilenames(ctx context.Context, userID int64) ([]string, error) {
	query := ` SELECT filename FROM files
		WHERE user_id=$1
		ORDER BY id
		`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	return scanFilenames(rows)
}
