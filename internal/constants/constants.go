package constants

import "time"

const (
	AppName           = "qada"
	DefaultConfigPath = "~/.config/qada/qada.json"
	Version           = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// SaveDebounce is the quiet period collapsed writes wait for before
	// the store is flushed to disk.
	SaveDebounce = 750 * time.Millisecond

	// SaveIndicatorWindow is how long the "saved" signal stays visible
	// after a flush completes.
	SaveIndicatorWindow = 3 * time.Second

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "qada-notifier.lock"
	NotificationDurationMs = 5000

	// DefaultPrayerMethod is the AlAdhan calculation method used when the
	// user has not picked one (12 = UOIF, matching the app's origins).
	DefaultPrayerMethod = 12
)
