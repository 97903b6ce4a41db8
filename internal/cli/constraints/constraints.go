package constraints

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/config"
	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/prompt"
	"github.com/julianstephens/weekgrid/internal/validation"
)

// clearValue resets a setting back to "not configured".
const clearValue = "none"

type ConstraintsCmd struct {
	Show   ConstraintsShowCmd   `cmd:"" default:"1" help:"Show the stored constraints."`
	Set    ConstraintsSetCmd    `cmd:"" help:"Change individual constraints."`
	Task   ConstraintsTaskCmd   `cmd:"" help:"Set the time window of one activity."`
	Edit   ConstraintsEditCmd   `cmd:"" help:"Edit the constraints interactively."`
	Import ConstraintsImportCmd `cmd:"" help:"Replace the constraints with a YAML or JSON file."`
	Clear  ConstraintsClearCmd  `cmd:"" help:"Remove all constraints."`
}

func stored(ctx *cli.Context) (models.Constraints, error) {
	c, err := ctx.Store.GetConstraints()
	if err != nil {
		return models.Constraints{}, fmt.Errorf("failed to read constraints: %w", err)
	}
	if c == nil {
		return models.Constraints{}, nil
	}
	return *c, nil
}

func save(ctx *cli.Context, c models.Constraints) error {
	if result := validation.New().ValidateConstraints(c); result.HasConflicts() {
		fmt.Print(result.FormatReport())
	}
	if err := ctx.Store.SaveConstraints(c); err != nil {
		return fmt.Errorf("failed to save constraints: %w", err)
	}
	fmt.Println("✓ Constraints saved")
	return nil
}

type ConstraintsShowCmd struct {
	Format string `short:"f" enum:"json,yaml" default:"json" help:"Output format (json|yaml)."`
}

func (c *ConstraintsShowCmd) Run(ctx *cli.Context) error {
	cons, err := stored(ctx)
	if err != nil {
		return err
	}
	data, err := cli.Encode(cons, c.Format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// ConstraintsSetCmd changes only the flags that were given. Passing "none"
// clears a setting.
type ConstraintsSetCmd struct {
	DayOff        string `help:"Mandatory day off, or none."`
	NoActivity    string `help:"No-activity blocks, e.g. \"12:00-13:00, 18:00-19:00\", or none."`
	MinGap        string `help:"Minimum gap in minutes around each activity, at least one slot once set, or none."`
	MaxPerDay     string `help:"Maximum activities per day, or none."`
	CategoryHours string `help:"Daily hour caps, e.g. \"work=6, gym=1.5\", or none."`
	Earliest      string `help:"Default earliest start (HH:MM), or none."`
	Latest        string `help:"Default latest end (HH:MM), or none."`
	AllowSkip     string `help:"Allow skipping unplaceable activities (true|false), or none."`
	MaxTasks      string `help:"Consider at most this many activities per solve, or none."`
}

func (c *ConstraintsSetCmd) Run(ctx *cli.Context) error {
	cons, err := stored(ctx)
	if err != nil {
		return err
	}
	changed, err := c.apply(&cons)
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("nothing to set; see 'weekgrid constraints set --help'")
	}
	return save(ctx, cons)
}

func (c *ConstraintsSetCmd) apply(cons *models.Constraints) (bool, error) {
	changed := false

	if c.DayOff != "" {
		changed = true
		if c.DayOff == clearValue {
			cons.MandatoryDayOff = ""
		} else {
			day, err := constants.ParseDay(c.DayOff)
			if err != nil {
				return false, err
			}
			cons.MandatoryDayOff = string(day)
		}
	}
	if c.NoActivity != "" {
		changed = true
		cons.NoActivityBlocks = nil
		if c.NoActivity != clearValue {
			ranges, err := prompt.ParseRanges(c.NoActivity)
			if err != nil {
				return false, err
			}
			cons.NoActivityBlocks = ranges
		}
	}
	if c.CategoryHours != "" {
		changed = true
		cons.MaxHoursPerCategoryPerDay = nil
		if c.CategoryHours != clearValue {
			hours, err := prompt.ParseCategoryHours(c.CategoryHours)
			if err != nil {
				return false, err
			}
			cons.MaxHoursPerCategoryPerDay = hours
		}
	}

	ints := []struct {
		flag, value string
		dst         **int
	}{
		{"min-gap", c.MinGap, &cons.MinGapMinutes},
		{"max-per-day", c.MaxPerDay, &cons.MaxTasksPerDay},
		{"max-tasks", c.MaxTasks, &cons.MaxTasksToSchedule},
	}
	for _, f := range ints {
		if f.value == "" {
			continue
		}
		changed = true
		if f.value == clearValue {
			*f.dst = nil
			continue
		}
		n, err := strconv.Atoi(f.value)
		if err != nil {
			return false, fmt.Errorf("--%s: %q is not a whole number", f.flag, f.value)
		}
		*f.dst = &n
	}

	clocks := []struct {
		flag, value string
		dst         *string
	}{
		{"earliest", c.Earliest, &cons.TaskEarliestStart},
		{"latest", c.Latest, &cons.TaskLatestEnd},
	}
	for _, f := range clocks {
		if f.value == "" {
			continue
		}
		changed = true
		if f.value == clearValue {
			*f.dst = ""
			continue
		}
		if err := prompt.ValidClock(f.value); err != nil {
			return false, fmt.Errorf("--%s: %w", f.flag, err)
		}
		*f.dst = f.value
	}

	if c.AllowSkip != "" {
		changed = true
		if c.AllowSkip == clearValue {
			cons.AllowSkipUnplaceable = nil
		} else {
			b, err := strconv.ParseBool(c.AllowSkip)
			if err != nil {
				return false, fmt.Errorf("--allow-skip: %q is not true or false", c.AllowSkip)
			}
			cons.AllowSkipUnplaceable = &b
		}
	}
	return changed, nil
}

type ConstraintsTaskCmd struct {
	Name     string `arg:"" help:"Activity name."`
	Earliest string `short:"s" help:"Earliest start (HH:MM)."`
	Latest   string `short:"e" help:"Latest end (HH:MM)."`
	Clear    bool   `help:"Remove the window for this activity."`
}

func (c *ConstraintsTaskCmd) Run(ctx *cli.Context) error {
	cons, err := stored(ctx)
	if err != nil {
		return err
	}

	if c.Clear {
		delete(cons.Tasks, c.Name)
		return save(ctx, cons)
	}
	if c.Earliest == "" && c.Latest == "" {
		return fmt.Errorf("give --earliest, --latest or --clear")
	}
	for _, v := range []string{c.Earliest, c.Latest} {
		if v == "" {
			continue
		}
		if err := prompt.ValidClock(v); err != nil {
			return err
		}
	}

	o := cons.Tasks[c.Name]
	if c.Earliest != "" {
		o.EarliestStart = c.Earliest
	}
	if c.Latest != "" {
		o.LatestEnd = c.Latest
	}
	if doc, err := ctx.Store.GetDocument(); err == nil {
		if _, ok := doc.ActivityByName(c.Name); !ok {
			fmt.Printf("Note: no activity named %q yet; the window applies once it exists.\n", c.Name)
		}
	}
	cons.SetOverride(c.Name, o)
	return save(ctx, cons)
}

type ConstraintsEditCmd struct{}

func (c *ConstraintsEditCmd) Run(ctx *cli.Context) error {
	cons, err := stored(ctx)
	if err != nil {
		return err
	}
	activities, err := ctx.Store.GetActivities()
	if err != nil {
		return fmt.Errorf("failed to read activities: %w", err)
	}
	names := make([]string, 0, len(activities))
	for _, a := range activities {
		names = append(names, a.Name)
	}

	fm := prompt.ConstraintsFormFrom(cons, names)
	if err := prompt.NewConstraintsForm(fm).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Edit cancelled.")
			return nil
		}
		return err
	}
	updated, err := fm.Constraints()
	if err != nil {
		return err
	}
	return save(ctx, updated)
}

type ConstraintsImportCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML or JSON constraints file."`
}

func (c *ConstraintsImportCmd) Run(ctx *cli.Context) error {
	cons, err := config.LoadConstraints(c.File)
	if err != nil {
		return err
	}
	return save(ctx, cons)
}

type ConstraintsClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ConstraintsClearCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := prompt.Confirm("Remove all constraints?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Clear cancelled.")
			return nil
		}
	}
	if err := ctx.Store.SaveConstraints(models.Constraints{}); err != nil {
		return fmt.Errorf("failed to clear constraints: %w", err)
	}
	fmt.Println("✓ Constraints cleared")
	return nil
}
