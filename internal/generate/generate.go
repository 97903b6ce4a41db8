// Package generate runs a solve against a storage backend: it reads the
// document, picks the constraints, solves and persists a successful result.
package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/weekgrid/internal/logger"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/scheduler"
	"github.com/julianstephens/weekgrid/internal/storage"
)

type Options struct {
	// Constraints replaces the stored constraints for this run when set.
	Constraints *models.Constraints
	// DryRun solves without writing anything back.
	DryRun bool
	// Timeout bounds the search. Zero means no deadline.
	Timeout time.Duration
	// BeforePersist runs right before a successful schedule is saved,
	// typically to take a backup.
	BeforePersist func()
}

type Outcome struct {
	Result    scheduler.Result
	Persisted bool
}

// Run solves the stored document. Only a SUCCESS result is persisted; any
// other status leaves the stored schedule untouched.
func Run(ctx context.Context, store storage.Provider, sched *scheduler.Scheduler, opts Options) (Outcome, error) {
	doc, err := store.GetDocument()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to read document: %w", err)
	}

	c, err := Constraints(store, opts.Constraints)
	if err != nil {
		return Outcome{}, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	res := sched.Solve(ctx, doc, c)
	out := Outcome{Result: res}
	if !res.Succeeded() || opts.DryRun {
		logger.Info("schedule not persisted", "status", res.Status, "dry_run", opts.DryRun)
		return out, nil
	}

	if opts.BeforePersist != nil {
		opts.BeforePersist()
	}
	if err := store.SaveGeneratedSchedule(res.Schedule); err != nil {
		return out, fmt.Errorf("failed to save schedule: %w", err)
	}
	out.Persisted = true
	logger.Info("schedule saved", "placed", len(res.Stats.Placed), "skipped", len(res.Stats.Skipped))
	return out, nil
}

// Constraints returns override when set, else the stored constraints, else
// the zero value.
func Constraints(store storage.Provider, override *models.Constraints) (models.Constraints, error) {
	if override != nil {
		return *override, nil
	}
	stored, err := store.GetConstraints()
	if err != nil {
		return models.Constraints{}, fmt.Errorf("failed to read constraints: %w", err)
	}
	if stored == nil {
		return models.Constraints{}, nil
	}
	return *stored, nil
}
