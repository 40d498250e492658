package cli

import (
	"fmt"
	"sync"

	"github.com/qadatrack/qada/internal/app"
	"github.com/qadatrack/qada/internal/storage"
)

// Context is passed to every command's Run. App is nil only for commands
// that run before storage exists (init).
type Context struct {
	ConfigPath string
	Provider   storage.Provider
	App        *app.App
	Indicator  *IndicatorRelay
}

// IndicatorRelay forwards save-indicator transitions to whichever surface
// is active. The app is loaded before the TUI program exists, so the
// relay's target is settable after the fact.
type IndicatorRelay struct {
	mu sync.Mutex
	fn func(visible bool)
}

func (r *IndicatorRelay) Set(fn func(visible bool)) {
	r.mu.Lock()
	r.fn = fn
	r.mu.Unlock()
}

func (r *IndicatorRelay) Emit(visible bool) {
	r.mu.Lock()
	fn := r.fn
	r.mu.Unlock()
	if fn != nil {
		fn(visible)
	}
}

// RequireApp guards commands that need loaded state.
func (c *Context) RequireApp() (*app.App, error) {
	if c.App == nil {
		return nil, fmt.Errorf("storage not loaded, run 'qada init' first")
	}
	return c.App, nil
}
