package system

import (
	"fmt"

	"github.com/qadatrack/qada/internal/cli"
	"github.com/qadatrack/qada/internal/notify"
)

// newNotifier is swapped out by tests.
var newNotifier = func() notify.Notifier { return notify.NewAgentNotifier() }

type NotifyCmd struct {
	Text   string `arg:"" help:"Notification text to deliver."`
	DryRun bool   `help:"Print the notification to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if c.DryRun {
		fmt.Println("[DryRun] " + c.Text)
		return nil
	}

	// Request, not Permission: a fresh notifier has not probed the agent
	// yet and would always report not-asked.
	n := newNotifier()
	if n.Request() != notify.PermissionGranted {
		return fmt.Errorf("notification agent not reachable")
	}
	if err := n.Notify(c.Text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
