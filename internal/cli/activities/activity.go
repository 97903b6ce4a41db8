package activities

import (
	"fmt"
	"strings"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/errors"
	"github.com/julianstephens/weekgrid/internal/prompt"
	"github.com/julianstephens/weekgrid/internal/validation"
)

type ActivityCmd struct {
	Add    ActivityAddCmd    `cmd:"" help:"Add an activity to schedule."`
	List   ActivityListCmd   `cmd:"" help:"List activities." default:"1"`
	Delete ActivityDeleteCmd `cmd:"" help:"Delete an activity by ID or name."`
}

type ActivityAddCmd struct {
	Name     string   `arg:"" help:"Activity name."`
	Duration float64  `short:"d" help:"Duration in hours." required:""`
	Priority int      `short:"p" help:"Priority, higher is scheduled first." default:"3"`
	Category string   `short:"c" help:"Category, used by per-category hour limits."`
	Earliest string   `short:"s" help:"Earliest start time (HH:MM)."`
	Latest   string   `short:"e" help:"Latest end time (HH:MM)."`
	After    []string `short:"a" help:"Activities that must end earlier on the same day."`
	Count    int      `short:"n" help:"Times per week; creates numbered instances." default:"1"`
}

func (c *ActivityAddCmd) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	return nil
}

func (c *ActivityAddCmd) Run(ctx *cli.Context) error {
	form := prompt.ActivityForm{
		Name:          c.Name,
		Duration:      fmt.Sprint(c.Duration),
		Priority:      fmt.Sprint(c.Priority),
		Category:      c.Category,
		EarliestStart: c.Earliest,
		LatestEnd:     c.Latest,
		After:         strings.Join(c.After, ","),
		Count:         fmt.Sprint(c.Count),
	}
	acts, err := form.Activities()
	if err != nil {
		return err
	}

	v := validation.New()
	for _, a := range acts {
		if err := v.Struct(a); err != nil {
			return err
		}
	}

	for _, a := range acts {
		if err := ctx.Store.AddActivity(a); err != nil {
			if errors.Is(err, errors.ErrAlreadyExists) {
				return fmt.Errorf("an activity named %q already exists", a.Name)
			}
			return err
		}
		fmt.Printf("Added activity: %s (%gh, priority %d)\n", a.Name, a.Duration, a.Priority)
	}
	return nil
}

type ActivityListCmd struct {
	ShowIDs bool `help:"Show activity IDs." name:"show-ids"`
}

func (c *ActivityListCmd) Run(ctx *cli.Context) error {
	acts, err := ctx.Store.GetActivities()
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}
	if len(acts) == 0 {
		fmt.Println("No activities found")
		return nil
	}

	fmt.Println("Activities:")
	for _, a := range acts {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", a.ID)
		}
		category := ""
		if a.Category != "" {
			category = ", " + a.Category
		}
		fmt.Printf("  %s%s - %gh (priority %d%s)\n", a.Name, idStr, a.Duration, a.Priority, category)
		if a.EarliestStart != "" || a.LatestEnd != "" {
			fmt.Printf("      Window: %s - %s\n", a.EarliestStart, a.LatestEnd)
		}
		if len(a.After) > 0 {
			fmt.Printf("      After: %s\n", strings.Join(a.After, ", "))
		}
	}
	return nil
}

type ActivityDeleteCmd struct {
	Ref string `arg:"" help:"Activity ID or name."`
}

func (c *ActivityDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteActivity(c.Ref); err != nil {
		return fmt.Errorf("failed to delete activity %q: %w", c.Ref, err)
	}
	fmt.Printf("Deleted activity: %s\n", c.Ref)
	return nil
}
