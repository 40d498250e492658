package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/qadatrack/qada/internal/constants"
)

// DayKey canonicalizes a moment to its YYYY-MM-DD key in the moment's own
// location. Two times on the same local calendar day map to the same key.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay parses a YYYY-MM-DD key to midnight in the given location.
func ParseDay(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// Midnight truncates a moment to midnight of its local calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a to b,
// ignoring the time-of-day component of both. Rounding absorbs DST
// transitions, where a calendar day is 23 or 25 hours long.
func DaysBetween(a, b time.Time) int {
	ma, mb := Midnight(a), Midnight(b)
	return int(math.Round(mb.Sub(ma).Hours() / 24))
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}
