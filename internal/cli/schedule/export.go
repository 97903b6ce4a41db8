package schedule

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/weekgrid/internal/cli"
)

type ExportCmd struct {
	Format       string `short:"f" enum:"json,yaml" default:"json" help:"Output format (json|yaml)."`
	Output       string `short:"o" help:"Write to a file instead of stdout." type:"path"`
	ScheduleOnly bool   `help:"Export only the generated schedule."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	doc, err := ctx.Store.GetDocument()
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var v any = doc
	if c.ScheduleOnly {
		v = doc.GeneratedSchedule
	}

	data, err := cli.Encode(v, c.Format)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if c.Output != "" {
		fmt.Fprintf(os.Stderr, "✓ Exported to %s\n", c.Output)
	}
	return nil
}
