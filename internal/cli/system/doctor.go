package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/weekgrid/internal/backup"
	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/storage"
	"github.com/julianstephens/weekgrid/internal/storage/postgres"
	"github.com/julianstephens/weekgrid/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	gate     bool // later checks that need the store are skipped when this fails
	needsDB  bool
	warnOnly bool
}

var checks = []check{
	{name: "Storage reachable", run: checkStorageReachable, gate: true},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := true
	for _, c := range checks {
		if c.needsDB && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.gate {
				reachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		return errors.New("one or more checks failed")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	_, err := ctx.Store.GetDocument()
	return err
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Store.(storage.Versioned)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, binary expects %d; run 'weekgrid init' to migrate", current, latest)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	doc, err := ctx.Store.GetDocument()
	if err != nil {
		return err
	}
	result := validation.New().ValidateDocument(doc)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s); run 'weekgrid validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return errors.New("backups are not managed for PostgreSQL; use pg_dump")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
	}
	return nil
}
