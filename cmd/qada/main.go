package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/qadatrack/qada/internal/app"
	"github.com/qadatrack/qada/internal/cli"
	"github.com/qadatrack/qada/internal/cli/reminders"
	"github.com/qadatrack/qada/internal/cli/system"
	"github.com/qadatrack/qada/internal/constants"
	"github.com/qadatrack/qada/internal/errors"
	"github.com/qadatrack/qada/internal/logger"
	"github.com/qadatrack/qada/internal/notify"
	"github.com/qadatrack/qada/internal/scheduler"
	"github.com/qadatrack/qada/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path (.json for the file store, .db for SQLite)." type:"path" default:"~/.config/qada/qada.json"`
	Debug   bool   `help:"Verbose logging to stderr."`

	Init   system.InitCmd   `cmd:"" help:"Initialize qada storage."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Goal   struct {
		Set  cli.GoalSetCmd  `cmd:"" help:"Set the make-up goal."`
		Show cli.GoalShowCmd `cmd:"" help:"Show goal and progress." default:"1"`
	} `cmd:"" help:"Manage the make-up goal."`
	Day struct {
		Toggle cli.DayToggleCmd `cmd:"" help:"Flip a day's made-up state."`
		Add    cli.DayAddCmd    `cmd:"" help:"Mark a day as made up."`
		Remove cli.DayRemoveCmd `cmd:"" help:"Unmark a day."`
	} `cmd:"" help:"Record made-up fast days."`
	Status   cli.StatusCmd   `cmd:"" help:"Show progress and streaks."`
	Calendar cli.CalendarCmd `cmd:"" help:"Render the month grid."`
	Reminder struct {
		Add    reminders.ReminderAddCmd    `cmd:"" help:"Schedule a reminder."`
		List   reminders.ReminderListCmd   `cmd:"" help:"List pending reminders." default:"1"`
		Delete reminders.ReminderDeleteCmd `cmd:"" help:"Delete a reminder."`
	} `cmd:"" help:"Manage reminders."`
	Watch  system.WatchCmd  `cmd:"" help:"Run the reminder scheduler until interrupted."`
	Prayer cli.PrayerCmd    `cmd:"" help:"Look up prayer times."`
	Reset  cli.ResetCmd     `cmd:"" help:"Clear all marked days."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Ramadan fast make-up tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	// Fatal exits, so the app teardown (debounce flush included) happens
	// inside run before we get here.
	errors.Fatal(run(ctx))
}

func run(ctx *kong.Context) error {
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	provider := storage.ForPath(CLI.Config)
	appCtx := &cli.Context{
		ConfigPath: CLI.Config,
		Provider:   provider,
		Indicator:  &cli.IndicatorRelay{},
	}

	// Init runs against the bare provider; everything else gets the
	// loaded application.
	if ctx.Selected() == nil || ctx.Selected().Name != "init" {
		a, err := app.Load(provider, notify.NewAgentNotifier(), scheduler.SystemClock(), appCtx.Indicator.Emit)
		if err != nil {
			return err
		}
		appCtx.App = a
		defer func() {
			if err := a.Close(); err != nil {
				logger.Error("shutdown flush failed", "error", err)
			}
		}()
	}

	return ctx.Run(appCtx)
}
