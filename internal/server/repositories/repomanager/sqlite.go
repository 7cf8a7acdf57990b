package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filereview/internal/dbx"
	"github.com/dmitrijs2005/filereview/internal/server/migrations"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/files"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/users"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager is the single-file backend. It keeps one open
// connection: SQLite serialises writers anyway, and an in-memory DSN would
// otherwise give every pooled connection its own empty database.
type SQLiteRepositoryManager struct {
	db *sql.DB
}

// NewSQLiteRepositoryManager opens dsn with the modernc driver. Use
// "_pragma=foreign_keys(1)" in the DSN to enforce files.user_id references.
func NewSQLiteRepositoryManager(dsn string) (RepositoryManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteRepositoryManager{db: db}, nil
}

func (m *SQLiteRepositoryManager) DB() *sql.DB { return m.db }

func (m *SQLiteRepositoryManager) Dialect() string { return "sqlite" }

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	return runMigrations(ctx, m.db, "sqlite3", migrations.SQLiteDir)
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
