package progress

import (
	"sort"
	"sync"
)

// Tracker owns the make-up goal and the set of fasted day keys for the
// lifetime of the running app. Durable storage mirrors it, never the other
// way around. Mutations report through the change hook so the owner can
// schedule a debounced persist.
type Tracker struct {
	mu       sync.Mutex
	goal     int
	days     map[string]bool
	onChange func()
}

func New(goal int, days []string) *Tracker {
	if goal < 0 {
		goal = 0
	}
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return &Tracker{goal: goal, days: set}
}

// SetOnChange registers the hook invoked after every mutation.
func (t *Tracker) SetOnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// SetGoal replaces the goal, clamping negative input to zero.
func (t *Tracker) SetGoal(n int) {
	t.mu.Lock()
	if n < 0 {
		n = 0
	}
	t.goal = n
	t.mu.Unlock()
	t.notify()
}

func (t *Tracker) Goal() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.goal
}

// ToggleDay flips membership of the day key and reports the new state.
// Toggling twice returns the set to where it started.
func (t *Tracker) ToggleDay(key string) bool {
	t.mu.Lock()
	fasted := !t.days[key]
	if fasted {
		t.days[key] = true
	} else {
		delete(t.days, key)
	}
	t.mu.Unlock()
	t.notify()
	return fasted
}

// AddDay marks the day fasted. No-op (and no change event) if it already is.
func (t *Tracker) AddDay(key string) bool {
	t.mu.Lock()
	if t.days[key] {
		t.mu.Unlock()
		return false
	}
	t.days[key] = true
	t.mu.Unlock()
	t.notify()
	return true
}

// RemoveDay unmarks the day. No-op if it was not marked.
func (t *Tracker) RemoveDay(key string) bool {
	t.mu.Lock()
	if !t.days[key] {
		t.mu.Unlock()
		return false
	}
	delete(t.days, key)
	t.mu.Unlock()
	t.notify()
	return true
}

// Reset clears every fasted day. The goal is kept; confirmation is the
// caller's concern.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.days = make(map[string]bool)
	t.mu.Unlock()
	t.notify()
}

func (t *Tracker) Has(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.days[key]
}

// Days returns the fasted day keys in ascending order.
func (t *Tracker) Days() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.days))
	for d := range t.days {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// DaySet returns a copy of the fasted set for derived views.
func (t *Tracker) DaySet() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]bool, len(t.days))
	for d := range t.days {
		out[d] = true
	}
	return out
}

func (t *Tracker) Completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.days)
}

func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r := t.goal - len(t.days); r > 0 {
		return r
	}
	return 0
}

// Percent reports completion as a rounded percentage, 0 when no goal is set.
func (t *Tracker) Percent() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.goal <= 0 {
		return 0
	}
	return int(float64(len(t.days))/float64(t.goal)*100 + 0.5)
}

func (t *Tracker) notify() {
	t.mu.Lock()
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}
