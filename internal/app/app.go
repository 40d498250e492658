package app

import (
	"sync"

	"github.com/qadatrack/qada/internal/constants"
	"github.com/qadatrack/qada/internal/models"
	"github.com/qadatrack/qada/internal/notify"
	"github.com/qadatrack/qada/internal/prayer"
	"github.com/qadatrack/qada/internal/progress"
	"github.com/qadatrack/qada/internal/scheduler"
	"github.com/qadatrack/qada/internal/storage"
)

// App composes the running tracker: the in-memory state owners, the
// debounced persistence path, and the reminder scheduler. The in-memory
// side is the source of truth; the provider only mirrors it.
type App struct {
	Provider  storage.Provider
	Tracker   *progress.Tracker
	Scheduler *scheduler.Scheduler
	Persister *storage.Persister
	Indicator *storage.Indicator
	Notifier  notify.Notifier
	Prayer    *prayer.Client
	Clock     scheduler.Clock

	mu       sync.Mutex
	version  int
	settings models.Settings
}

// Load reads durable state (defaults if absent or malformed) and wires
// every mutation source to the debounced persister. The indicator is
// armed after the load so startup does not blink it.
func Load(provider storage.Provider, notifier notify.Notifier, clock scheduler.Clock, onIndicator func(bool)) (*App, error) {
	state, err := provider.Load()
	if err != nil {
		return nil, err
	}

	a := &App{
		Provider:  provider,
		Tracker:   progress.New(state.Goal, state.FastedDays),
		Scheduler: scheduler.New(clock, notifier),
		Persister: storage.NewPersister(provider, constants.SaveDebounce),
		Indicator: storage.NewIndicator(constants.SaveIndicatorWindow, onIndicator),
		Notifier:  notifier,
		Prayer:    prayer.NewClient(),
		Clock:     clock,
		version:   state.Version,
		settings:  state.Settings,
	}

	a.Persister.SetOnSaved(func(err error) {
		if err == nil {
			a.Indicator.SaveCompleted()
		}
	})
	a.Tracker.SetOnChange(a.scheduleSave)
	a.Scheduler.SetOnChange(func([]models.Reminder) { a.scheduleSave() })
	a.Scheduler.Load(state.Reminders)

	a.Indicator.Arm()
	return a, nil
}

// Snapshot assembles the current state aggregate for persistence.
func (a *App) Snapshot() models.State {
	a.mu.Lock()
	version := a.version
	settings := a.settings
	a.mu.Unlock()

	return models.State{
		Version:    version,
		Goal:       a.Tracker.Goal(),
		FastedDays: a.Tracker.Days(),
		Reminders:  a.Scheduler.Reminders(),
		Settings:   settings,
	}
}

func (a *App) Settings() models.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// UpdateSettings applies fn to the settings under lock and schedules a
// persist.
func (a *App) UpdateSettings(fn func(*models.Settings)) {
	a.mu.Lock()
	fn(&a.settings)
	a.mu.Unlock()
	a.scheduleSave()
}

// Close tears the app down: timers cancelled, any pending debounce
// flushed so the trailing write is not lost, provider closed.
func (a *App) Close() error {
	a.Scheduler.Stop()
	a.Indicator.Stop()
	flushErr := a.Persister.Flush()
	a.Persister.Stop()
	closeErr := a.Provider.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func (a *App) scheduleSave() {
	a.Persister.Schedule(a.Snapshot)
}
