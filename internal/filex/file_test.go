package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "session.db")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Join(tmp, "a", "b"))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.db")

	require.NoError(t, EnsureParentDir(path))
	require.NoError(t, EnsureParentDir(path))
}

func TestEnsureParentDir_BareNameIsNoop(t *testing.T) {
	require.NoError(t, EnsureParentDir("session.db"))
}

func TestEnsureParentDir_FailsWhenParentIsAFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "state")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := EnsureParentDir(filepath.Join(blocker, "session.db"))
	require.Error(t, err)
}

func TestDefaultDataFile(t *testing.T) {
	got := DefaultDataFile("session.db")
	require.Equal(t, "session.db", filepath.Base(got))

	if base, err := os.UserConfigDir(); err == nil && base != "" {
		require.Equal(t, filepath.Join(base, AppDirName, "session.db"), got)
	}
}
