package repomanager

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dmitrijs2005/nodekeeper/internal/logging"
	"github.com/dmitrijs2005/nodekeeper/internal/server/repositories/profiles"
)

func TestSQLite_OpenMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "m.db") + "?_pragma=busy_timeout(5000)&_txlock=immediate"

	db, m, err := Open(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	defer db.Close()

	assert.Nil(t, m.TxOptions())
	require.NoError(t, m.RunMigrations(ctx, db))
	require.NoError(t, m.RunMigrations(ctx, db), "second run must be a no-op")

	repo := m.Profiles(db)
	_, ok := repo.(*profiles.SQLiteRepository)
	assert.True(t, ok)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, _, err := Open(context.Background(), "oracle", "")
	require.Error(t, err)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	db, _, err := Open(context.Background(), DriverSQLite, "file:"+filepath.Join(dir, "x.db")+"?_txlock=immediate")
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dir)
	require.NoError(t, err)
}

func TestOpen_ParentIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, _, err := Open(context.Background(), DriverSQLite, "file:"+filepath.Join(blocker, "x.db"))
	require.Error(t, err)
}

func TestRunMigrations_LogsThroughLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(logging.NewZapLogger(zap.New(core)))
	defer SetLogger(nil)

	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "log.db") + "?_pragma=busy_timeout(5000)&_txlock=immediate"
	db, m, err := Open(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, m.RunMigrations(ctx, db))

	entries := logs.FilterMessageSnippet("goose:").AllUntimed()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, zapcore.InfoLevel, e.Level)
		assert.False(t, strings.HasSuffix(e.Message, "\n"))
	}
}
