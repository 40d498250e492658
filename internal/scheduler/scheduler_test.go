package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/qadatrack/qada/internal/models"
	"github.com/qadatrack/qada/internal/notify"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeNotifier struct {
	mu         sync.Mutex
	permission notify.Permission
	delivered  []string
}

func (n *fakeNotifier) Permission() notify.Permission { return n.permission }
func (n *fakeNotifier) Request() notify.Permission    { return n.permission }

func (n *fakeNotifier) Notify(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered = append(n.delivered, text)
	return nil
}

func (n *fakeNotifier) deliveries() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.delivered...)
}

// clockBefore returns a clock pinned the given duration before the
// reminder moment "2024-03-15 08:00" UTC, so armed timers fire quickly in
// real time.
func clockBefore(d time.Duration) *fakeClock {
	at := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	return &fakeClock{now: at.Add(-d)}
}

func TestReconcileDropsPastWithoutArming(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)}
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	s := New(clock, notifier)
	defer s.Stop()

	var missedCalls, missedTotal int
	s.SetOnMissed(func(n int) {
		missedCalls++
		missedTotal += n
	})

	s.Load([]models.Reminder{
		{ID: "r1", Date: "2024-03-15", Time: "08:00", Message: "past one"},
		{ID: "r2", Date: "2024-03-19", Time: "23:59", Message: "past two"},
	})

	if got := len(s.Reminders()); got != 0 {
		t.Errorf("pending reminders = %d, want 0", got)
	}
	if missedCalls != 1 || missedTotal != 2 {
		t.Errorf("missed notice: %d calls, %d total; want one batched call with 2", missedCalls, missedTotal)
	}

	time.Sleep(50 * time.Millisecond)
	if got := notifier.deliveries(); len(got) != 0 {
		t.Errorf("past reminders delivered notifications: %v", got)
	}
}

func TestReminderDueExactlyNowFiresNotMissed(t *testing.T) {
	clock := clockBefore(0)
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	s := New(clock, notifier)
	defer s.Stop()

	var missedTotal int
	s.SetOnMissed(func(n int) { missedTotal += n })

	s.Load([]models.Reminder{
		{ID: "a", Date: "2024-03-15", Time: "08:00", Message: "right now"},
	})

	if missedTotal != 0 {
		t.Fatalf("boundary reminder counted as missed (%d)", missedTotal)
	}

	deadline := time.After(2 * time.Second)
	for len(notifier.deliveries()) < 1 {
		select {
		case <-deadline:
			t.Fatal("boundary reminder never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestTwoRemindersForSameInstantBothFire(t *testing.T) {
	clock := clockBefore(80 * time.Millisecond)
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	s := New(clock, notifier)
	defer s.Stop()

	s.Load([]models.Reminder{
		{ID: "a", Date: "2024-03-15", Time: "08:00", Message: "first"},
		{ID: "b", Date: "2024-03-15", Time: "08:00", Message: "second"},
	})

	deadline := time.After(2 * time.Second)
	for len(notifier.deliveries()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("deliveries = %v, want both reminders fired", notifier.deliveries())
		case <-time.After(10 * time.Millisecond):
		}
	}

	got := notifier.deliveries()
	if len(got) != 2 {
		t.Fatalf("deliveries = %v, want exactly 2", got)
	}
	seen := map[string]int{}
	for _, d := range got {
		seen[d]++
	}
	if seen["first"] != 1 || seen["second"] != 1 {
		t.Errorf("each reminder must deliver exactly once, got %v", seen)
	}
	if remaining := s.Reminders(); len(remaining) != 0 {
		t.Errorf("fired reminders still listed: %v", remaining)
	}
}

func TestNoTimersWithoutPermission(t *testing.T) {
	clock := clockBefore(50 * time.Millisecond)
	notifier := &fakeNotifier{permission: notify.PermissionDenied}
	s := New(clock, notifier)
	defer s.Stop()

	s.Load([]models.Reminder{
		{ID: "a", Date: "2024-03-15", Time: "08:00", Message: "silent"},
	})

	time.Sleep(150 * time.Millisecond)
	if got := notifier.deliveries(); len(got) != 0 {
		t.Errorf("deliveries = %v, want none while permission denied", got)
	}
	// The reminder still persists and displays.
	if got := len(s.Reminders()); got != 1 {
		t.Errorf("pending reminders = %d, want 1 (kept in degraded mode)", got)
	}
}

func TestPermissionGrantedLaterArmsOnReconcile(t *testing.T) {
	clock := clockBefore(60 * time.Millisecond)
	notifier := &fakeNotifier{permission: notify.PermissionNotAsked}
	s := New(clock, notifier)
	defer s.Stop()

	s.Load([]models.Reminder{
		{ID: "a", Date: "2024-03-15", Time: "08:00", Message: "later"},
	})

	notifier.permission = notify.PermissionGranted
	s.Reconcile()

	deadline := time.After(2 * time.Second)
	for len(notifier.deliveries()) < 1 {
		select {
		case <-deadline:
			t.Fatal("reminder never fired after permission was granted")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStopCancelsArmedTimers(t *testing.T) {
	clock := clockBefore(60 * time.Millisecond)
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	s := New(clock, notifier)

	s.Load([]models.Reminder{
		{ID: "a", Date: "2024-03-15", Time: "08:00", Message: "never"},
	})
	s.Stop()

	time.Sleep(200 * time.Millisecond)
	if got := notifier.deliveries(); len(got) != 0 {
		t.Errorf("deliveries = %v after Stop, want none", got)
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	clock := clockBefore(time.Hour)
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	s := New(clock, notifier)
	defer s.Stop()

	var changes int
	s.SetOnChange(func([]models.Reminder) { changes++ })

	s.Delete("no-such-id")
	if changes != 0 {
		t.Errorf("Delete of absent id reported a change")
	}
}

func TestAddValidatesAndAssignsID(t *testing.T) {
	clock := clockBefore(time.Hour)
	notifier := &fakeNotifier{permission: notify.PermissionDenied}
	s := New(clock, notifier)
	defer s.Stop()

	tests := []struct {
		name    string
		date    string
		time    string
		message string
		wantErr bool
	}{
		{name: "valid", date: "2024-03-15", time: "08:00", message: "fast tomorrow"},
		{name: "empty message", date: "2024-03-15", time: "08:00", message: "", wantErr: true},
		{name: "bad date", date: "15/03/2024", time: "08:00", message: "x", wantErr: true},
		{name: "bad time", date: "2024-03-15", time: "8am", message: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := s.Add(tt.date, tt.time, tt.message)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Add() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && r.ID == "" {
				t.Error("Add() returned reminder without id")
			}
		})
	}

	// Two valid adds get distinct ids.
	r1, err := s.Add("2024-03-15", "09:00", "one")
	if err != nil {
		t.Fatal(err)
	}
	r2, err := s.Add("2024-03-15", "09:00", "two")
	if err != nil {
		t.Fatal(err)
	}
	if r1.ID == r2.ID {
		t.Errorf("ids collide: %s", r1.ID)
	}
}

func TestRemindersSortedBySchedule(t *testing.T) {
	clock := clockBefore(time.Hour)
	notifier := &fakeNotifier{permission: notify.PermissionDenied}
	s := New(clock, notifier)
	defer s.Stop()

	s.Load([]models.Reminder{
		{ID: "c", Date: "2024-03-16", Time: "07:00", Message: "third"},
		{ID: "a", Date: "2024-03-15", Time: "09:00", Message: "second"},
		{ID: "b", Date: "2024-03-15", Time: "08:30", Message: "first"},
	})

	got := s.Reminders()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Message != want {
			t.Errorf("position %d = %q, want %q", i, got[i].Message, want)
		}
	}
}
