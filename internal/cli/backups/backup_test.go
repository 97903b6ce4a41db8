package backups

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/weekgrid/internal/backup"
	"github.com/julianstephens/weekgrid/internal/constants"
)

func TestResolveBackup(t *testing.T) {
	dir := t.TempDir()
	mgr := backup.NewManager(filepath.Join(dir, "weekgrid.db"))
	require.NoError(t, os.MkdirAll(mgr.GetBackupDir(), 0o700))

	name := "weekgrid-20260101-120000.db"
	inDir := filepath.Join(mgr.GetBackupDir(), name)
	require.NoError(t, os.WriteFile(inDir, []byte("x"), 0o600))

	t.Run("absolute", func(t *testing.T) {
		got, err := resolveBackup(mgr, inDir)
		require.NoError(t, err)
		assert.Equal(t, inDir, got)
	})

	t.Run("bare name in backup dir", func(t *testing.T) {
		got, err := resolveBackup(mgr, name)
		require.NoError(t, err)
		assert.Equal(t, inDir, got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := resolveBackup(mgr, "nope.db")
		require.Error(t, err)
		assert.Contains(t, err.Error(), constants.BackupDirName)
	})

	t.Run("missing absolute", func(t *testing.T) {
		_, err := resolveBackup(mgr, filepath.Join(dir, "gone.db"))
		assert.Error(t, err)
	})
}
