package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/storage/sqlite"
)

// TestIntegrationBackupRestoreWorkflow backs up a real weekgrid database,
// changes it, and restores it.
func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "weekgrid.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.AddActivity(models.Activity{Name: "Read", Duration: 1}); err != nil {
		t.Fatalf("failed to add activity: %v", err)
	}
	store.Close()

	mgr := NewManager(dbPath)
	backup1Path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	store = sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	if err := store.AddActivity(models.Activity{Name: "Gym", Duration: 2}); err != nil {
		t.Fatalf("failed to add second activity: %v", err)
	}
	acts, err := store.GetActivities()
	if err != nil || len(acts) != 2 {
		t.Fatalf("expected 2 activities after modification, got %d (%v)", len(acts), err)
	}
	store.Close()

	if err := mgr.RestoreBackup(backup1Path); err != nil {
		t.Fatalf("failed to restore backup: %v", err)
	}

	store = sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load restored store: %v", err)
	}
	defer store.Close()

	acts, err = store.GetActivities()
	if err != nil {
		t.Fatalf("failed to read activities after restore: %v", err)
	}
	if len(acts) != 1 || acts[0].Name != "Read" {
		t.Errorf("unexpected activities after restore: %+v", acts)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) < 2 {
		t.Errorf("expected at least 2 backups after restore, got %d", len(backups))
	}
}

// TestMultipleDayBackups tests that backups work correctly when created on different days
func TestMultipleDayBackups(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	mgr := NewManager(dbPath)

	// Create multiple backups
	for i := 0; i < 3; i++ {
		_, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}

	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}

	// Verify all backups are valid SQLite databases
	for _, backup := range backups {
		db, err := sql.Open("sqlite", backup.Path)
		if err != nil {
			t.Errorf("failed to open backup %s: %v", backup.Path, err)
			continue
		}
		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM test_data").Scan(&count)
		if err != nil {
			t.Errorf("failed to query backup %s: %v", backup.Path, err)
		}
		db.Close()
	}
}

// TestBackupWithNoDatabase tests that backup fails gracefully when database doesn't exist
func TestBackupWithNoDatabase(t *testing.T) {
	tempDir := t.TempDir()
	nonExistentDB := filepath.Join(tempDir, "nonexistent.db")

	mgr := NewManager(nonExistentDB)
	_, err := mgr.CreateBackup()
	if err == nil {
		t.Error("expected error when backing up non-existent database")
	}
}

// TestRestoreWithCorruptedBackup tests restore fails for corrupted backup
func TestRestoreWithCorruptedBackup(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	mgr := NewManager(dbPath)

	// Create a corrupted backup file
	corruptedPath := filepath.Join(mgr.GetBackupDir(), "corrupted.db")
	err := os.MkdirAll(mgr.GetBackupDir(), 0700)
	if err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}
	err = os.WriteFile(corruptedPath, []byte("not a valid sqlite database"), 0600)
	if err != nil {
		t.Fatalf("failed to create corrupted file: %v", err)
	}

	// Attempt to restore from corrupted backup
	err = mgr.RestoreBackup(corruptedPath)
	if err == nil {
		t.Error("expected error when restoring from corrupted backup")
	}
}

// TestBackupDirectoryCreation tests that backup directory is created if it doesn't exist
func TestBackupDirectoryCreation(t *testing.T) {
	dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	mgr := NewManager(dbPath)

	// Remove backup directory if it exists
	os.RemoveAll(mgr.GetBackupDir())

	// Create a backup - should create the directory
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	// Verify directory was created
	if _, err := os.Stat(mgr.GetBackupDir()); os.IsNotExist(err) {
		t.Error("backup directory was not created")
	}

	// Verify backup file exists
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Error("backup file was not created")
	}
}
