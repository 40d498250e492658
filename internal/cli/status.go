package cli

import (
	"fmt"
	"strings"

	"github.com/qadatrack/qada/internal/progress"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	goal := a.Tracker.Goal()
	completed := a.Tracker.Completed()
	remaining := a.Tracker.Remaining()
	percent := a.Tracker.Percent()
	streaks := progress.ComputeStreaks(a.Tracker.Days(), a.Clock.Now())

	fmt.Printf("Goal:      %d days\n", goal)
	fmt.Printf("Completed: %d days\n", completed)
	fmt.Printf("Remaining: %d days\n", remaining)
	fmt.Printf("Progress:  %s %d%%\n", progressBar(percent, 20), percent)
	fmt.Printf("Streak:    %d current / %d longest\n", streaks.Current, streaks.Longest)

	if goal > 0 && remaining == 0 {
		fmt.Println("\nAll caught up. May it be accepted.")
	}
	return nil
}

func progressBar(percent, width int) string {
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
