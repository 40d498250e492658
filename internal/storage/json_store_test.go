package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/qadatrack/qada/internal/models"
)

func testState() models.State {
	return models.State{
		Version:    1,
		Goal:       12,
		FastedDays: []string{"2024-03-01", "2024-03-02"},
		Reminders: []models.Reminder{
			{
				ID:        "a3c52be7-8c2e-4f11-9e7e-ce1b9f1f0001",
				Date:      "2024-03-15",
				Time:      "08:00",
				Message:   "Fast tomorrow",
				CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
		Settings: models.Settings{
			PrayerCity:    "Rabat",
			PrayerCountry: "Morocco",
			PrayerMethod:  12,
		},
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qada.json")
	store := NewJSONStore(path)

	want := testState()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestJSONStoreMissingFileDefaults(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, models.DefaultState()) {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestJSONStoreMalformedFileDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{{{nope"},
		{name: "empty file", content: ""},
		{name: "wrong shape", content: `"just a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "qada.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			got, err := NewJSONStore(path).Load()
			if err != nil {
				t.Fatalf("Load() error = %v, want fallback not error", err)
			}
			if !reflect.DeepEqual(got, models.DefaultState()) {
				t.Errorf("Load() = %+v, want defaults", got)
			}
		})
	}
}

func TestJSONStorePartialStateNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qada.json")
	// Old file with only a goal: collections must come back non-nil and
	// the prayer method must pick up its default.
	if err := os.WriteFile(path, []byte(`{"goal": 7}`), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := NewJSONStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Goal != 7 {
		t.Errorf("Goal = %d, want 7", got.Goal)
	}
	if got.FastedDays == nil || got.Reminders == nil {
		t.Error("collections should be normalized to empty, not nil")
	}
	if got.Settings.PrayerMethod == 0 {
		t.Error("prayer method should default, not stay 0")
	}
}

func TestJSONStoreInitRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qada.json")
	store := NewJSONStore(path)

	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("second Init() should refuse to overwrite existing storage")
	}
}

func TestForPath(t *testing.T) {
	if _, ok := ForPath("/tmp/x/qada.db").(*SQLiteStore); !ok {
		t.Error("ForPath(.db) should select the SQLite store")
	}
	if _, ok := ForPath("/tmp/x/qada.json").(*JSONStore); !ok {
		t.Error("ForPath(.json) should select the JSON store")
	}
}
