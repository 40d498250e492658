package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qadatrack/qada/internal/logger"
	"github.com/qadatrack/qada/internal/models"
)

// JSONStore persists the whole state aggregate as one pretty-printed JSON
// file. Writes replace the file atomically via a temp file and rename so a
// crash mid-write never leaves a half-written state behind.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}
	return s.Save(models.DefaultState())
}

// Load reads the state file. A missing or unparseable file is not an
// error: defaults come back instead, with a warning in the log.
func (s *JSONStore) Load() (models.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultState(), nil
		}
		logger.Warn("Falling back to default state", "path", s.path, "error", err)
		return models.DefaultState(), nil
	}

	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("State file is malformed, falling back to defaults", "path", s.path, "error", err)
		return models.DefaultState(), nil
	}

	state.Normalize()
	return state, nil
}

func (s *JSONStore) Save(state models.State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Path() string {
	return s.path
}
