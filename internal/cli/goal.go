package cli

import (
	"fmt"

	"github.com/qadatrack/qada/internal/validation"
)

type GoalSetCmd struct {
	Days string `arg:"" help:"Number of make-up days to aim for."`
}

func (c *GoalSetCmd) Run(ctx *Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	n, err := validation.Goal(c.Days)
	if err != nil {
		return err
	}

	a.Tracker.SetGoal(n)
	fmt.Printf("✓ Goal set to %d days\n", a.Tracker.Goal())
	return nil
}

type GoalShowCmd struct{}

func (c *GoalShowCmd) Run(ctx *Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	fmt.Printf("Goal: %d days (%d done, %d remaining)\n",
		a.Tracker.Goal(), a.Tracker.Completed(), a.Tracker.Remaining())
	return nil
}
