package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/storage"
	"github.com/julianstephens/weekgrid/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing data file before initialization."`
	Source string `help:"Data file or connection string to copy the document from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized weekgrid storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", cli.MaskPassword(c.Source))
		if err := c.copyFrom(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return fmt.Errorf("--force is not supported for PostgreSQL; use 'weekgrid reset' instead")
	}

	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context, source string) error {
	if storage.Detect(source) == storage.BackendPostgres {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
	}

	src := storage.New(source)
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	defer src.Close()

	doc, err := src.GetDocument()
	if err != nil {
		return fmt.Errorf("failed to read source document: %w", err)
	}
	if err := ctx.Store.SaveDocument(doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	fmt.Printf("  Copied %d activities, %d fixed blocks\n", len(doc.Activities), len(doc.FixedSchedule))
	if !doc.GeneratedSchedule.IsEmpty() {
		fmt.Println("  Copied generated schedule")
	}
	if doc.Constraints != nil {
		fmt.Println("  Copied constraints")
	}
	return nil
}
