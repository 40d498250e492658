package cli

import (
	"fmt"

	"github.com/qadatrack/qada/internal/validation"
)

type DayToggleCmd struct {
	Date string `arg:"" help:"Day to flip (YYYY-MM-DD or 'today')."`
}

func (c *DayToggleCmd) Run(ctx *Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	key, err := validation.Day(c.Date, a.Clock.Now())
	if err != nil {
		return err
	}

	if a.Tracker.ToggleDay(key) {
		fmt.Printf("✓ %s marked as made up\n", key)
	} else {
		fmt.Printf("✓ %s unmarked\n", key)
	}
	return nil
}

type DayAddCmd struct {
	Date string `arg:"" help:"Day to mark as made up (YYYY-MM-DD or 'today')."`
}

func (c *DayAddCmd) Run(ctx *Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	key, err := validation.Day(c.Date, a.Clock.Now())
	if err != nil {
		return err
	}

	if a.Tracker.AddDay(key) {
		fmt.Printf("✓ %s marked as made up\n", key)
	} else {
		fmt.Printf("%s was already marked\n", key)
	}
	return nil
}

type DayRemoveCmd struct {
	Date string `arg:"" help:"Day to unmark (YYYY-MM-DD or 'today')."`
}

func (c *DayRemoveCmd) Run(ctx *Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	key, err := validation.Day(c.Date, a.Clock.Now())
	if err != nil {
		return err
	}

	if a.Tracker.RemoveDay(key) {
		fmt.Printf("✓ %s unmarked\n", key)
	} else {
		fmt.Printf("%s was not marked\n", key)
	}
	return nil
}
