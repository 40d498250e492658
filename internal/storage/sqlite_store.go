package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/qadatrack/qada/internal/logger"
	"github.com/qadatrack/qada/internal/models"
)

// SQLiteStore mirrors the state aggregate into a small SQLite database:
// scalar values and settings in a meta table, fasted days and reminders in
// their own tables. Save replaces the mirrored rows in one transaction so
// readers never observe a partial write.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fasted_days (
	day TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS reminders (
	id         TEXT PRIMARY KEY,
	day        TEXT NOT NULL,
	time       TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.Save(models.DefaultState())
}

// Load reads the mirrored state. Any read failure degrades to defaults
// with a log warning; startup never fails on bad storage.
func (s *SQLiteStore) Load() (models.State, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return models.DefaultState(), nil
	}
	if err := s.open(); err != nil {
		logger.Warn("Falling back to default state", "path", s.path, "error", err)
		return models.DefaultState(), nil
	}

	state := models.DefaultState()

	meta, err := s.readMeta()
	if err != nil {
		logger.Warn("Failed to read meta, falling back to defaults", "error", err)
		return models.DefaultState(), nil
	}
	if v, ok := meta["goal"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			state.Goal = n
		}
	}
	if v, ok := meta["prayer_method"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n != 0 {
			state.Settings.PrayerMethod = n
		}
	}
	state.Settings.PrayerCity = meta["prayer_city"]
	state.Settings.PrayerCountry = meta["prayer_country"]
	state.Settings.HintDismissed = meta["hint_dismissed"] == "1"

	rows, err := s.db.Query("SELECT day FROM fasted_days ORDER BY day")
	if err != nil {
		logger.Warn("Failed to read fasted days, falling back to defaults", "error", err)
		return models.DefaultState(), nil
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			continue
		}
		state.FastedDays = append(state.FastedDays, day)
	}

	rrows, err := s.db.Query("SELECT id, day, time, message, created_at FROM reminders ORDER BY day, time")
	if err != nil {
		logger.Warn("Failed to read reminders, falling back to defaults", "error", err)
		return models.DefaultState(), nil
	}
	defer rrows.Close()
	for rrows.Next() {
		var r models.Reminder
		var created string
		if err := rrows.Scan(&r.ID, &r.Date, &r.Time, &r.Message, &created); err != nil {
			continue
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = t
		}
		state.Reminders = append(state.Reminders, r)
	}

	state.Normalize()
	return state, nil
}

func (s *SQLiteStore) Save(state models.State) error {
	if err := s.open(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	meta := map[string]string{
		"version":        strconv.Itoa(state.Version),
		"goal":           strconv.Itoa(state.Goal),
		"prayer_city":    state.Settings.PrayerCity,
		"prayer_country": state.Settings.PrayerCountry,
		"prayer_method":  strconv.Itoa(state.Settings.PrayerMethod),
		"hint_dismissed": boolFlag(state.Settings.HintDismissed),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", k, v); err != nil {
			return fmt.Errorf("failed to write meta %s: %w", k, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM fasted_days"); err != nil {
		return fmt.Errorf("failed to clear fasted days: %w", err)
	}
	for _, day := range state.FastedDays {
		if _, err := tx.Exec("INSERT INTO fasted_days (day) VALUES (?)", day); err != nil {
			return fmt.Errorf("failed to write fasted day %s: %w", day, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM reminders"); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}
	for _, r := range state.Reminders {
		if _, err := tx.Exec(
			"INSERT INTO reminders (id, day, time, message, created_at) VALUES (?, ?, ?, ?, ?)",
			r.ID, r.Date, r.Time, r.Message, r.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("failed to write reminder %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) readMeta() (map[string]string, error) {
	out := make(map[string]string)
	rows, err := s.db.Query("SELECT key, value FROM meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
