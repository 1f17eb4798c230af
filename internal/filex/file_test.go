package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestSQLitePath(t *testing.T) {
	tests := map[string]string{
		"file:nodekeeper.db?_pragma=busy_timeout(5000)&_txlock=immediate": "nodekeeper.db",
		"file:/var/lib/nodekeeper/store.db":                                "/var/lib/nodekeeper/store.db",
		"data/nodekeeper.db":                                               "data/nodekeeper.db",
		":memory:":                                                         "",
		"file::memory:?cache=shared":                                       "",
		"file:shared?mode=memory&cache=shared":                             "",
		"":                                                                 "",
	}
	for dsn, want := range tests {
		assert.Equal(t, want, SQLitePath(dsn), dsn)
	}
}

func TestEnsureParentDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureParentDir(filepath.Join("data", "nodekeeper.db"))
	require.NoError(t, err)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	want, err := os.Stat(filepath.Join(tmp, "data"))
	require.NoError(t, err)
	require.True(t, os.SameFile(want, fi))

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "store.db")

	first, err := EnsureParentDir(path)
	require.NoError(t, err)

	second, err := EnsureParentDir(path)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, filepath.Join(tmp, "a", "b"), second)
}

func TestEnsureParentDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o660))

	_, err := EnsureParentDir(filepath.Join(blocker, "store.db"))
	require.Error(t, err, "should fail when a file exists with the same name")
}
