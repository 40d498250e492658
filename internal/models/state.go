package models

import "github.com/qadatrack/qada/internal/constants"

// Settings holds the small set of user preferences that ride along with the
// tracker data in durable storage.
type Settings struct {
	PrayerCity    string `json:"prayer_city,omitempty"`
	PrayerCountry string `json:"prayer_country,omitempty"`
	PrayerMethod  int    `json:"prayer_method"`
	HintDismissed bool   `json:"hint_dismissed"`
}

// State is the serializable aggregate mirrored to durable storage. The
// in-memory copy owned by the running app is always authoritative; storage
// is a passive mirror that catches up after the debounce window.
type State struct {
	Version    int        `json:"version"`
	Goal       int        `json:"goal"`
	FastedDays []string   `json:"fasted_days"` // YYYY-MM-DD keys
	Reminders  []Reminder `json:"reminders"`
	Settings   Settings   `json:"settings"`
}

// DefaultState returns the state substituted when storage is absent or
// unreadable. Loading must never fail hard.
func DefaultState() State {
	return State{
		Version:    1,
		Goal:       0,
		FastedDays: []string{},
		Reminders:  []Reminder{},
		Settings: Settings{
			PrayerMethod: constants.DefaultPrayerMethod,
		},
	}
}

// Normalize fills nil collections and out-of-range values after a load so
// downstream code never sees a malformed state.
func (s *State) Normalize() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Goal < 0 {
		s.Goal = 0
	}
	if s.FastedDays == nil {
		s.FastedDays = []string{}
	}
	if s.Reminders == nil {
		s.Reminders = []Reminder{}
	}
	if s.Settings.PrayerMethod == 0 {
		s.Settings.PrayerMethod = constants.DefaultPrayerMethod
	}
}
