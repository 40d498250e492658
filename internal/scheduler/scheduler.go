package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qadatrack/qada/internal/logger"
	"github.com/qadatrack/qada/internal/models"
	"github.com/qadatrack/qada/internal/notify"
)

// Clock abstracts wall-clock reads so tests can pin "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// Scheduler owns the reminder list and the timers armed against it. A
// reminder is either pending (its moment is still ahead) or gone: fired
// with a delivered notification, or discarded as missed when a
// reconciliation pass finds its moment already behind us.
//
// Reconciliation is all-or-nothing: every armed timer is cancelled before
// re-arming, so editing the list can never leave a duplicate or orphaned
// timer behind.
type Scheduler struct {
	mu        sync.Mutex
	clock     Clock
	notifier  notify.Notifier
	reminders map[string]models.Reminder
	timers    map[string]*time.Timer
	onChange  func([]models.Reminder)
	onFired   func(models.Reminder)
	onMissed  func(count int)
	stopped   bool
}

func New(clock Clock, notifier notify.Notifier) *Scheduler {
	return &Scheduler{
		clock:     clock,
		notifier:  notifier,
		reminders: make(map[string]models.Reminder),
		timers:    make(map[string]*time.Timer),
	}
}

// SetOnChange registers the hook invoked with the surviving list after any
// change, for persistence.
func (s *Scheduler) SetOnChange(fn func([]models.Reminder)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetOnFired registers a hook invoked after a reminder delivers.
func (s *Scheduler) SetOnFired(fn func(models.Reminder)) {
	s.mu.Lock()
	s.onFired = fn
	s.mu.Unlock()
}

// SetOnMissed registers a hook receiving the count of reminders dropped as
// already past, batched to at most one call per reconciliation pass.
func (s *Scheduler) SetOnMissed(fn func(count int)) {
	s.mu.Lock()
	s.onMissed = fn
	s.mu.Unlock()
}

// Load replaces the reminder list wholesale (initial load from storage)
// and reconciles.
func (s *Scheduler) Load(reminders []models.Reminder) {
	s.mu.Lock()
	s.reminders = make(map[string]models.Reminder, len(reminders))
	for _, r := range reminders {
		s.reminders[r.ID] = r
	}
	s.mu.Unlock()
	s.Reconcile()
}

// Add validates and appends a new reminder with a fresh id, then
// reconciles.
func (s *Scheduler) Add(date, timeStr, message string) (models.Reminder, error) {
	r := models.Reminder{
		ID:        uuid.New().String(),
		Date:      date,
		Time:      timeStr,
		Message:   message,
		CreatedAt: s.clock.Now(),
	}
	if err := r.Validate(); err != nil {
		return models.Reminder{}, err
	}

	s.mu.Lock()
	s.reminders[r.ID] = r
	s.mu.Unlock()

	s.Reconcile()
	s.notifyChange()
	return r, nil
}

// Delete removes a reminder by id and reconciles. Absent ids are a no-op.
func (s *Scheduler) Delete(id string) {
	s.mu.Lock()
	_, ok := s.reminders[id]
	if ok {
		delete(s.reminders, id)
	}
	s.mu.Unlock()

	if ok {
		s.Reconcile()
		s.notifyChange()
	}
}

// Reminders returns the pending list ordered by scheduled moment.
func (s *Scheduler) Reminders() []models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Reconcile cancels every armed timer, drops entries whose moment has
// passed (reporting them as one missed batch), and re-arms one timer per
// remaining entry, but only while notification permission is granted. An
// entry due at this exact instant still counts as pending and fires
// immediately.
// Without permission reminders stay listed and persisted, just silent.
// It returns how many entries were dropped as missed.
func (s *Scheduler) Reconcile() int {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return 0
	}

	s.cancelAllLocked()

	now := s.clock.Now()
	granted := s.notifier.Permission() == notify.PermissionGranted

	missed := 0
	for id, r := range s.reminders {
		at, err := r.At(now.Location())
		if err != nil || at.Before(now) {
			delete(s.reminders, id)
			missed++
			continue
		}
		if !granted {
			continue
		}
		rid := id
		s.timers[id] = time.AfterFunc(at.Sub(now), func() { s.fire(rid) })
	}

	onMissed := s.onMissed
	s.mu.Unlock()

	if missed > 0 {
		if onMissed != nil {
			onMissed(missed)
		}
		s.notifyChange()
	}
	return missed
}

// Stop cancels every timer and inert-izes the scheduler. Safe to call more
// than once; no timer outlives it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.cancelAllLocked()
}

func (s *Scheduler) cancelAllLocked() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(id string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	r, ok := s.reminders[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.reminders, id)
	delete(s.timers, id)
	onFired := s.onFired
	s.mu.Unlock()

	if err := s.notifier.Notify(r.Message); err != nil {
		logger.Warn("Failed to deliver reminder", "id", r.ID, "error", err)
	}
	if onFired != nil {
		onFired(r)
	}
	s.notifyChange()
}

func (s *Scheduler) notifyChange() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(s.Reminders())
	}
}
