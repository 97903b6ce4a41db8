package schedule

import (
	"fmt"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/scheduler"
)

// EditCmd changes the block covering one slot of the generated schedule.
// Locked blocks are kept in place by the next generate.
type EditCmd struct {
	Action string `arg:"" enum:"lock,unlock,remove,rename" help:"One of lock, unlock, remove, rename."`
	Day    string `arg:"" help:"Day of the week."`
	Time   string `arg:"" help:"Any slot time inside the block (HH:MM)."`
	Name   string `short:"n" help:"New name, for rename."`
}

func (c *EditCmd) Validate() error {
	if c.Action == constants.EditRename && c.Name == "" {
		return fmt.Errorf("--name is required for rename")
	}
	return nil
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	day, slot, err := cli.ParseSlot(c.Day, c.Time)
	if err != nil {
		return err
	}

	ws, err := ctx.Store.GetGeneratedSchedule()
	if err != nil {
		return fmt.Errorf("failed to read schedule: %w", err)
	}
	if ws.IsEmpty() {
		return fmt.Errorf("no schedule yet, run 'weekgrid generate' first")
	}

	occ, _ := ws.Get(day, slot)
	edited, err := scheduler.ApplyEdit(ws, scheduler.Edit{Day: day, Slot: slot, Action: c.Action, NewName: c.Name})
	if err != nil {
		return err
	}
	if err := ctx.Store.SaveGeneratedSchedule(edited); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	switch c.Action {
	case constants.EditLock:
		fmt.Printf("✓ Locked %s on %s; it stays in place on the next generate\n", occ.Name, day)
	case constants.EditUnlock:
		fmt.Printf("✓ Unlocked %s on %s\n", occ.Name, day)
	case constants.EditRemove:
		fmt.Printf("✓ Removed %s from %s\n", occ.Name, day)
	case constants.EditRename:
		fmt.Printf("✓ Renamed %s to %s on %s\n", occ.Name, c.Name, day)
	}
	return nil
}
