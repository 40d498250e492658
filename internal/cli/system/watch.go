package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qadatrack/qada/internal/cli"
	"github.com/qadatrack/qada/internal/logger"
	"github.com/qadatrack/qada/internal/models"
	"github.com/qadatrack/qada/internal/notify"
)

type WatchCmd struct{}

// Run keeps the reminder scheduler alive until interrupted. Timers are
// armed against absolute moments, so the periodic tick only exists to
// reconcile across suspend/resume gaps.
func (c *WatchCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	if perm := a.Notifier.Request(); perm != notify.PermissionGranted {
		fmt.Printf("Notifications are %s; reminders will be kept but not delivered.\n", perm)
	}

	a.Scheduler.SetOnFired(func(r models.Reminder) {
		fmt.Printf("🔔 %s (%s %s)\n", r.Message, r.Date, r.Time)
	})
	a.Scheduler.SetOnMissed(func(count int) {
		fmt.Printf("Dropped %d past reminder(s)\n", count)
	})
	a.Scheduler.Reconcile()

	fmt.Printf("Watching %d reminder(s). Press Ctrl+C to stop.\n", len(a.Scheduler.Reminders()))

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			fmt.Println("\nStopping.")
			return nil
		case <-ticker.C:
			if dropped := a.Scheduler.Reconcile(); dropped > 0 {
				logger.Debug("reconcile dropped reminders", "count", dropped)
			}
		}
	}
}
