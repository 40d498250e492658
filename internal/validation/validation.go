package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/qadatrack/qada/internal/constants"
	"github.com/qadatrack/qada/internal/utils"
)

// Goal parses a goal entered as text. Non-numeric input is rejected at the
// boundary; the tracker itself clamps negatives, so any integer passes.
func Goal(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, fmt.Errorf("goal is required")
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("goal must be a whole number, got %q", input)
	}
	return n, nil
}

// Day resolves a day argument to a canonical YYYY-MM-DD key. The literal
// "today" is accepted as a convenience.
func Day(input string, now time.Time) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "today" {
		return utils.DayKey(now), nil
	}
	d, err := utils.ParseDay(strings.TrimSpace(input), now.Location())
	if err != nil {
		return "", err
	}
	return utils.DayKey(d), nil
}

// Reminder checks the add-reminder form fields. All three are required;
// date and time must parse in the canonical formats.
func Reminder(date, timeStr, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("reminder message is required")
	}
	if strings.TrimSpace(date) == "" {
		return fmt.Errorf("reminder date is required")
	}
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if strings.TrimSpace(timeStr) == "" {
		return fmt.Errorf("reminder time is required")
	}
	if _, err := time.Parse(constants.TimeFormat, timeStr); err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return nil
}
