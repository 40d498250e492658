package storage

import (
	"strings"

	"github.com/qadatrack/qada/internal/models"
)

// Provider is the single persistence boundary. All durable reads and
// writes of tracker state go through it; views never touch storage
// directly. Load substitutes defaults for missing or malformed data
// rather than failing, so startup can never be blocked by a bad file.
type Provider interface {
	Init() error
	Load() (models.State, error)
	Save(models.State) error
	Close() error
	Path() string
}

// ForPath picks a provider from the config path: a .db suffix selects
// SQLite, everything else the JSON file store.
func ForPath(path string) Provider {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		return NewSQLiteStore(path)
	}
	return NewJSONStore(path)
}
