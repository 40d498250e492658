package storage

import (
	"sync"
	"time"
)

// Indicator is the transient "saved" signal: visible for a fixed window
// after each successful flush, then hidden again by a timer. The very
// first save after the initial load does not blink the indicator, so
// loading stored state at startup is silent.
type Indicator struct {
	mu       sync.Mutex
	window   time.Duration
	timer    *time.Timer
	visible  bool
	armed    bool // becomes true after the initial load settles
	onChange func(visible bool)
}

func NewIndicator(window time.Duration, onChange func(visible bool)) *Indicator {
	return &Indicator{window: window, onChange: onChange}
}

// Arm marks the initial load as finished; saves from here on show the
// indicator.
func (i *Indicator) Arm() {
	i.mu.Lock()
	i.armed = true
	i.mu.Unlock()
}

// SaveCompleted shows the indicator and schedules it to hide after the
// window. Back-to-back saves restart the window.
func (i *Indicator) SaveCompleted() {
	i.mu.Lock()
	if !i.armed {
		i.mu.Unlock()
		return
	}
	changed := !i.visible
	i.visible = true
	if i.timer != nil {
		i.timer.Stop()
	}
	i.timer = time.AfterFunc(i.window, i.hide)
	fn := i.onChange
	i.mu.Unlock()

	if changed && fn != nil {
		fn(true)
	}
}

func (i *Indicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}

// Stop cancels the hide timer. Called on teardown so no callback fires
// into a torn-down UI.
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
}

func (i *Indicator) hide() {
	i.mu.Lock()
	changed := i.visible
	i.visible = false
	i.timer = nil
	fn := i.onChange
	i.mu.Unlock()

	if changed && fn != nil {
		fn(false)
	}
}
