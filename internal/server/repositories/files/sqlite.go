package files

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/filereview/internal/dbx"
	"github.com/dmitrijs2005/filereview/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Record(ctx context.Context, userID int64, filename string) (*models.FileRecord, error) {

	query := `INSERT INTO files (user_id, filename) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, userID, filename)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &models.FileRecord{ID: id, UserID: userID, Filename: filename}, nil
}

func (r *SQLiteRepository) ListFilenames(ctx context.Context, userID int64) ([]string, error) {
	query := `select filename from files where user_id=? order by id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	return scanFilenames(rows)
}

func scanFilenames(rows *sql.Rows) ([]string, error) {
	result := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		result = append(result, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
