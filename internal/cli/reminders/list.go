package reminders

import (
	"fmt"
	"strings"

	"github.com/qadatrack/qada/internal/cli"
)

type ReminderListCmd struct{}

func (c *ReminderListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	reminders := a.Scheduler.Reminders()
	if len(reminders) == 0 {
		fmt.Println("No reminders scheduled.")
		return nil
	}

	fmt.Printf("%-36s %-12s %-6s %s\n", "ID", "Date", "Time", "Message")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range reminders {
		message := r.Message
		if len(message) > 40 {
			message = message[:37] + "..."
		}
		fmt.Printf("%-36s %-12s %-6s %s\n", r.ID, r.Date, r.Time, message)
	}
	return nil
}
