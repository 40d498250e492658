package models

import (
	"fmt"
	"time"

	"github.com/qadatrack/qada/internal/constants"
)

// Reminder is a one-time scheduled notification. A reminder either fires at
// its moment while the app is watching, or is discarded as missed on the
// next reconciliation pass once its moment has passed.
type Reminder struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // HH:MM
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Reminder) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("reminder message cannot be empty")
	}
	if _, err := time.Parse(constants.DateFormat, r.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if _, err := time.Parse(constants.TimeFormat, r.Time); err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return nil
}

// At returns the reminder's scheduled moment in the given location.
func (r *Reminder) At(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat+" "+constants.TimeFormat, r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder schedule %q %q: %w", r.Date, r.Time, err)
	}
	return t, nil
}
