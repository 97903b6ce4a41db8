package activities

import (
	"fmt"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/prompt"
	"github.com/julianstephens/weekgrid/internal/scheduler"
	"github.com/julianstephens/weekgrid/internal/validation"
)

type FixedCmd struct {
	Add    FixedAddCmd    `cmd:"" help:"Add a fixed block such as a lecture."`
	List   FixedListCmd   `cmd:"" help:"List fixed blocks." default:"1"`
	Delete FixedDeleteCmd `cmd:"" help:"Delete a fixed block by ID or name."`
}

type FixedAddCmd struct {
	Name     string `arg:"" help:"Block name."`
	Day      string `short:"D" help:"Day of the week (Monday-Friday)." required:""`
	Start    string `short:"s" help:"Start time (HH:MM)." required:""`
	End      string `short:"e" help:"End time (HH:MM)." required:""`
	Category string `short:"c" help:"Category."`
}

func (c *FixedAddCmd) Run(ctx *cli.Context) error {
	day, err := constants.ParseDay(c.Day)
	if err != nil {
		return err
	}
	fb, err := prompt.FixedBlockForm{
		Name:      c.Name,
		Day:       day,
		StartTime: c.Start,
		EndTime:   c.End,
		Category:  c.Category,
	}.FixedBlock()
	if err != nil {
		return err
	}
	if err := validation.New().Struct(fb); err != nil {
		return err
	}

	if overlap, ok := overlapping(ctx, fb); ok {
		fmt.Printf("⚠️  Warning: overlaps %s (%s %s-%s)\n", overlap.DisplayName(), overlap.Day, overlap.StartTime, overlap.EndTime)
	}

	if err := ctx.Store.AddFixedBlock(fb); err != nil {
		return err
	}
	fmt.Printf("Added fixed block: %s (%s %s-%s)\n", fb.Name, fb.Day, fb.StartTime, fb.EndTime)
	return nil
}

func overlapping(ctx *cli.Context, fb models.FixedBlock) (models.FixedBlock, bool) {
	blocks, err := ctx.Store.GetFixedBlocks()
	if err != nil {
		return models.FixedBlock{}, false
	}
	start, end := scheduler.SlotIndex(fb.StartTime), scheduler.SlotIndex(fb.EndTime)
	for _, b := range blocks {
		if b.Day != fb.Day {
			continue
		}
		if start < scheduler.SlotIndex(b.EndTime) && scheduler.SlotIndex(b.StartTime) < end {
			return b, true
		}
	}
	return models.FixedBlock{}, false
}

type FixedListCmd struct {
	ShowIDs bool `help:"Show block IDs." name:"show-ids"`
}

func (c *FixedListCmd) Run(ctx *cli.Context) error {
	blocks, err := ctx.Store.GetFixedBlocks()
	if err != nil {
		return fmt.Errorf("failed to get fixed blocks: %w", err)
	}
	if len(blocks) == 0 {
		fmt.Println("No fixed blocks found")
		return nil
	}

	fmt.Println("Fixed blocks:")
	for _, b := range blocks {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", b.ID)
		}
		fmt.Printf("  %-9s %s-%s  %s%s\n", b.Day, b.StartTime, b.EndTime, b.DisplayName(), idStr)
	}
	return nil
}

type FixedDeleteCmd struct {
	Ref string `arg:"" help:"Block ID or name."`
}

func (c *FixedDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteFixedBlock(c.Ref); err != nil {
		return fmt.Errorf("failed to delete fixed block %q: %w", c.Ref, err)
	}
	fmt.Printf("Deleted fixed block: %s\n", c.Ref)
	return nil
}
