package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filereview/internal/dbx"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/files"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/users"
)

// RepositoryManager owns the database handle for the process lifetime and
// vends repositories bound to either that handle or a transaction.
type RepositoryManager interface {
	DB() *sql.DB
	Dialect() string
	RunMigrations(ctx context.Context) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	Close() error
}

// IsPostgresDSN reports whether dsn addresses PostgreSQL rather than SQLite.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open picks the backend from the DSN, opens it and applies migrations.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)
	if IsPostgresDSN(dsn) {
		m, err = NewPostgresRepositoryManager(dsn)
	} else {
		m, err = NewSQLiteRepositoryManager(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
