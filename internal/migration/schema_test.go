package migration

import (
	"io/fs"
	"testing"

	"github.com/julianstephens/weekgrid/migrations"
)

func dialectFS(t *testing.T, dialect string) fs.FS {
	t.Helper()
	sub, err := fs.Sub(migrations.FS, dialect)
	if err != nil {
		t.Fatalf("failed to open %s migrations: %v", dialect, err)
	}
	return sub
}

func TestBundledSQLiteSchema(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, dialectFS(t, "sqlite"))

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest < 1 {
		t.Fatalf("expected at least one bundled migration, got latest version %d", latest)
	}

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != latest {
		t.Errorf("expected %d migrations applied, got %d", latest, count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != latest {
		t.Errorf("expected version %d, got %d", latest, version)
	}

	for _, table := range []string{"fixed_blocks", "activities", "generated_slots", "solver_constraints"} {
		var n int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n)
		if err != nil || n != 1 {
			t.Errorf("%s table was not created", table)
		}
	}

	// Re-running against an up-to-date schema is a no-op.
	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations on second run, got %d", count)
	}
	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion failed on current schema: %v", err)
	}
}

func TestBundledSQLiteSchemaOneOccupantPerSlot(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := NewRunner(db, dialectFS(t, "sqlite")).ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	insert := `INSERT INTO generated_slots (day, slot, name) VALUES (?, ?, ?)`
	if _, err := db.Exec(insert, "Monday", 4, "Gym"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := db.Exec(insert, "Monday", 4, "Read"); err == nil {
		t.Error("expected a second occupant of Monday slot 4 to be rejected")
	}
	if _, err := db.Exec(insert, "Tuesday", 4, "Read"); err != nil {
		t.Errorf("same slot on another day should be accepted: %v", err)
	}

	var duration float64
	if _, err := db.Exec(`INSERT INTO activities (id, name, duration) VALUES (?, ?, ?)`, "a1", "Gym", 1.5); err != nil {
		t.Fatalf("activity insert failed: %v", err)
	}
	if err := db.QueryRow(`SELECT duration FROM activities WHERE id = ?`, "a1").Scan(&duration); err != nil {
		t.Fatalf("activity read failed: %v", err)
	}
	if duration != 1.5 {
		t.Errorf("expected duration 1.5, got %v", duration)
	}
}

func TestBundledDialectsShareVersions(t *testing.T) {
	sqlite, err := NewRunner(nil, dialectFS(t, "sqlite")).ReadMigrationFiles()
	if err != nil {
		t.Fatalf("reading sqlite migrations failed: %v", err)
	}
	postgres, err := NewRunner(nil, dialectFS(t, "postgres")).ReadMigrationFiles()
	if err != nil {
		t.Fatalf("reading postgres migrations failed: %v", err)
	}

	if len(sqlite) != len(postgres) {
		t.Fatalf("sqlite has %d migrations, postgres has %d", len(sqlite), len(postgres))
	}
	for i := range sqlite {
		if sqlite[i].Version != i+1 {
			t.Errorf("sqlite migration %d has version %d, expected %d", i, sqlite[i].Version, i+1)
		}
		if sqlite[i].Version != postgres[i].Version || sqlite[i].Name != postgres[i].Name {
			t.Errorf("dialects diverge at %d: sqlite %d_%s, postgres %d_%s",
				i, sqlite[i].Version, sqlite[i].Name, postgres[i].Version, postgres[i].Name)
		}
		if sqlite[i].SQL == "" {
			t.Errorf("sqlite migration %d is empty", sqlite[i].Version)
		}
	}
}
