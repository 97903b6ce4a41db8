package system

import (
	"fmt"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/prompt"
)

type ResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := prompt.Confirm("Delete all activities, fixed blocks, constraints and the generated schedule?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Reset(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Println("✓ All data removed")
	return nil
}
