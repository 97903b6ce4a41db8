package schedule

import (
	"fmt"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/render"
	"github.com/julianstephens/weekgrid/internal/report"
)

type ShowCmd struct {
	NoTotals bool `help:"Hide the hours-per-activity table."`
	Load     bool `help:"Print the per-day load summary."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	ws, err := ctx.Store.GetGeneratedSchedule()
	if err != nil {
		return fmt.Errorf("failed to read schedule: %w", err)
	}
	if ws.IsEmpty() {
		fmt.Println("No schedule yet. Run 'weekgrid generate' first.")
		return nil
	}

	fmt.Println(render.Calendar(ws))
	if !c.NoTotals {
		fmt.Println()
		fmt.Println(render.TotalsTable(ws))
	}
	if c.Load {
		fmt.Println()
		for _, d := range report.Loads(ws) {
			fmt.Printf("  %-10s %5.1fh scheduled, %5.1fh fixed\n", d.Day, d.Hours, d.FixedHours)
		}
	}
	return nil
}
