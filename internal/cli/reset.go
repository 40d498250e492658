package cli

import (
	"fmt"
)

type ResetCmd struct {
	Force bool `help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	if !c.Force {
		return fmt.Errorf("reset clears every marked day; re-run with --force to confirm")
	}

	a.Tracker.Reset()
	fmt.Println("✓ Progress reset (goal kept)")
	return nil
}
