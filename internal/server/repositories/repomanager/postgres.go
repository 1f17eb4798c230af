package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/nodekeeper/internal/dbx"
	"github.com/dmitrijs2005/nodekeeper/internal/server/migrations"
	"github.com/dmitrijs2005/nodekeeper/internal/server/repositories/profiles"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories. Mutating
// transactions run at SERIALIZABLE so the count-then-insert in profile
// creation cannot interleave.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) TxOptions() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "pgx", migrations.PostgresDir)
}
