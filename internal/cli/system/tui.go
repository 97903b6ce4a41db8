package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	opts := tui.Options{BeforePersist: ctx.PerformAutomaticBackup}
	if ctx.Config != nil {
		opts.Timeout = ctx.Config.Solver.Timeout
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Scheduler, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	ctx.WriteMetrics()
	return nil
}
