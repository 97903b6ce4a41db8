package schedule

import (
	"context"
	"fmt"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/config"
	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/generate"
	"github.com/julianstephens/weekgrid/internal/logger"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/render"
	"github.com/julianstephens/weekgrid/internal/report"
	"github.com/julianstephens/weekgrid/internal/validation"
)

type GenerateCmd struct {
	Constraints     string `short:"c" help:"Constraints file (YAML or JSON) to use instead of the stored constraints." type:"path"`
	SaveConstraints bool   `help:"Store the constraints file for later runs."`
	DryRun          bool   `help:"Solve and print without saving the schedule."`
	Quiet           bool   `short:"q" help:"Print the summary only, not the calendar."`
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	var override *models.Constraints
	if c.Constraints != "" {
		loaded, err := config.LoadConstraints(c.Constraints)
		if err != nil {
			return err
		}
		override = &loaded
		if c.SaveConstraints && !c.DryRun {
			if err := ctx.Store.SaveConstraints(loaded); err != nil {
				return fmt.Errorf("failed to save constraints: %w", err)
			}
		}
	}

	cons, err := generate.Constraints(ctx.Store, override)
	if err != nil {
		return err
	}
	if result := validation.New().ValidateConstraints(cons); result.HasConflicts() {
		for _, conflict := range result.Conflicts {
			logger.Warn("constraint ignored by the solver", "type", conflict.Type, "detail", conflict.Description)
		}
		fmt.Print(result.FormatReport())
	}

	opts := generate.Options{
		Constraints:   &cons,
		DryRun:        c.DryRun,
		BeforePersist: ctx.PerformAutomaticBackup,
	}
	if ctx.Config != nil {
		opts.Timeout = ctx.Config.Solver.Timeout
	}

	out, err := generate.Run(context.Background(), ctx.Store, ctx.Scheduler, opts)
	ctx.WriteMetrics()
	if err != nil {
		return err
	}

	res := out.Result
	switch res.Status {
	case constants.StatusNoActivities:
		fmt.Println("No activities to schedule. Add one with 'weekgrid activity add'.")
		return nil
	case constants.StatusSuccess:
		if !c.Quiet {
			fmt.Println(render.Calendar(res.Schedule))
			fmt.Println()
		}
		fmt.Print(report.Build(res).String())
		switch {
		case out.Persisted:
			fmt.Println("✓ Schedule saved")
		case c.DryRun:
			fmt.Println("Dry run: schedule not saved")
		}
		return nil
	case constants.StatusBudgetExceeded:
		fmt.Print(report.Build(res).String())
		return fmt.Errorf("search budget exhausted before a schedule was found; raise solver.max_nodes or solver.timeout, or relax the constraints")
	default:
		fmt.Print(report.Build(res).String())
		return fmt.Errorf("no feasible schedule: remove some constraints, shorten activities, or allow skipping unplaceable activities")
	}
}
