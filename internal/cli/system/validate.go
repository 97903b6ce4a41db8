package system

import (
	"fmt"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/config"
	"github.com/julianstephens/weekgrid/internal/validation"
)

type ValidateCmd struct {
	Constraints string `help:"Also check a constraints file." type:"path"`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	doc, err := ctx.Store.GetDocument()
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	v := validation.New()
	result := v.ValidateDocument(doc)

	cons := doc.Constraints
	if c.Constraints != "" {
		loaded, err := config.LoadConstraints(c.Constraints)
		if err != nil {
			return err
		}
		cons = &loaded
	}
	if cons != nil {
		result.Conflicts = append(result.Conflicts, v.ValidateConstraints(*cons).Conflicts...)
	}

	fmt.Print(result.FormatReport())
	if !result.HasConflicts() {
		fmt.Println()
		return nil
	}
	return fmt.Errorf("found %d conflict(s)", len(result.Conflicts))
}
