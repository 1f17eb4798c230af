package repomanager

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/nodekeeper/internal/dbx"
	"github.com/dmitrijs2005/nodekeeper/internal/server/migrations"
	"github.com/dmitrijs2005/nodekeeper/internal/server/repositories/profiles"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
//
// Writers are serialized by the engine: the DSN is expected to carry
// _txlock=immediate so every transaction takes the write lock at BEGIN, and a
// busy_timeout so contenders wait instead of failing.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewSQLiteRepository(db)
}

// TxOptions is nil; modernc.org/sqlite rejects non-default isolation levels and
// BEGIN IMMEDIATE already gives serializable writes.
func (m *SQLiteRepositoryManager) TxOptions() *sql.TxOptions { return nil }

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir)
}
