package reminders

import (
	"fmt"

	"github.com/qadatrack/qada/internal/cli"
)

type ReminderDeleteCmd struct {
	ID string `arg:"" help:"Reminder ID to delete."`
}

func (c *ReminderDeleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	found := false
	for _, r := range a.Scheduler.Reminders() {
		if r.ID == c.ID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("reminder not found: %s", c.ID)
	}

	a.Scheduler.Delete(c.ID)
	fmt.Printf("✓ Reminder deleted: %s\n", c.ID)
	return nil
}
