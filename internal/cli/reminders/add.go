package reminders

import (
	"fmt"

	"github.com/qadatrack/qada/internal/cli"
	"github.com/qadatrack/qada/internal/notify"
	"github.com/qadatrack/qada/internal/validation"
)

type ReminderAddCmd struct {
	Message string `arg:"" help:"Reminder message."`
	Date    string `help:"Date for the reminder (YYYY-MM-DD)." required:""`
	Time    string `help:"Time for the reminder (HH:MM)." required:""`
}

func (c *ReminderAddCmd) Validate() error {
	return validation.Reminder(c.Date, c.Time, c.Message)
}

func (c *ReminderAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	r, err := a.Scheduler.Add(c.Date, c.Time, c.Message)
	if err != nil {
		return fmt.Errorf("failed to add reminder: %w", err)
	}

	fmt.Printf("✓ Reminder added: %s at %s on %s\n", r.Message, r.Time, r.Date)
	if a.Notifier.Permission() != notify.PermissionGranted {
		fmt.Println("  Note: notifications are not enabled, so this reminder will not fire.")
	}
	return nil
}
