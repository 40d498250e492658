package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/qadatrack/qada/internal/models"
)

type fakeProvider struct {
	mu    sync.Mutex
	saves int
	last  models.State
	fail  error
}

func (f *fakeProvider) Init() error  { return nil }
func (f *fakeProvider) Close() error { return nil }
func (f *fakeProvider) Path() string { return "fake" }

func (f *fakeProvider) Load() (models.State, error) {
	return models.DefaultState(), nil
}

func (f *fakeProvider) Save(s models.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.saves++
	f.last = s
	return nil
}

func (f *fakeProvider) stats() (int, models.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves, f.last
}

func TestPersisterCollapsesBurst(t *testing.T) {
	provider := &fakeProvider{}
	p := NewPersister(provider, 30*time.Millisecond)
	defer p.Stop()

	// Ten rapid goal edits inside the window: one write, final value.
	state := models.DefaultState()
	for i := 1; i <= 10; i++ {
		state.Goal = i
		snapshot := state // copy at schedule time is fine; last wins
		p.Schedule(func() models.State { return snapshot })
	}

	time.Sleep(120 * time.Millisecond)

	saves, last := provider.stats()
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}
	if last.Goal != 10 {
		t.Errorf("persisted goal = %d, want 10 (latest value)", last.Goal)
	}
}

func TestPersisterSeparatedWritesBothLand(t *testing.T) {
	provider := &fakeProvider{}
	p := NewPersister(provider, 20*time.Millisecond)
	defer p.Stop()

	s1 := models.DefaultState()
	s1.Goal = 1
	p.Schedule(func() models.State { return s1 })
	time.Sleep(80 * time.Millisecond)

	s2 := models.DefaultState()
	s2.Goal = 2
	p.Schedule(func() models.State { return s2 })
	time.Sleep(80 * time.Millisecond)

	saves, last := provider.stats()
	if saves != 2 {
		t.Errorf("saves = %d, want 2", saves)
	}
	if last.Goal != 2 {
		t.Errorf("persisted goal = %d, want 2", last.Goal)
	}
}

func TestPersisterFlushWritesImmediately(t *testing.T) {
	provider := &fakeProvider{}
	p := NewPersister(provider, time.Hour) // would never fire on its own

	s := models.DefaultState()
	s.Goal = 9
	p.Schedule(func() models.State { return s })

	if err := p.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	saves, last := provider.stats()
	if saves != 1 || last.Goal != 9 {
		t.Errorf("after Flush: saves=%d goal=%d, want 1 and 9", saves, last.Goal)
	}

	// Nothing pending: Flush is a no-op.
	if err := p.Flush(); err != nil {
		t.Fatalf("idle Flush() error = %v", err)
	}
	if saves, _ := provider.stats(); saves != 1 {
		t.Errorf("idle Flush wrote again: saves = %d", saves)
	}
}

func TestPersisterStopCancelsPending(t *testing.T) {
	provider := &fakeProvider{}
	p := NewPersister(provider, 20*time.Millisecond)

	s := models.DefaultState()
	p.Schedule(func() models.State { return s })
	p.Stop()

	time.Sleep(80 * time.Millisecond)
	if saves, _ := provider.stats(); saves != 0 {
		t.Errorf("saves = %d after Stop, want 0", saves)
	}

	// Scheduling after Stop stays inert.
	p.Schedule(func() models.State { return s })
	time.Sleep(80 * time.Millisecond)
	if saves, _ := provider.stats(); saves != 0 {
		t.Errorf("saves = %d after post-Stop Schedule, want 0", saves)
	}
}

func TestPersisterReportsSaveError(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	provider := &fakeProvider{fail: wantErr}
	p := NewPersister(provider, time.Hour)

	var gotErr error
	p.SetOnSaved(func(err error) { gotErr = err })

	p.Schedule(func() models.State { return models.DefaultState() })
	if err := p.Flush(); !errors.Is(err, wantErr) {
		t.Errorf("Flush() error = %v, want %v", err, wantErr)
	}
	if !errors.Is(gotErr, wantErr) {
		t.Errorf("onSaved error = %v, want %v", gotErr, wantErr)
	}
}

func TestIndicatorWindow(t *testing.T) {
	var mu sync.Mutex
	var transitions []bool
	ind := NewIndicator(40*time.Millisecond, func(v bool) {
		mu.Lock()
		transitions = append(transitions, v)
		mu.Unlock()
	})
	defer ind.Stop()

	// Before Arm, saves are silent (initial-load guard).
	ind.SaveCompleted()
	if ind.Visible() {
		t.Error("indicator visible before Arm")
	}

	ind.Arm()
	ind.SaveCompleted()
	if !ind.Visible() {
		t.Error("indicator should be visible right after a save")
	}

	time.Sleep(120 * time.Millisecond)
	if ind.Visible() {
		t.Error("indicator should hide after the window")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []bool{true, false}
	if len(transitions) != 2 || transitions[0] != want[0] || transitions[1] != want[1] {
		t.Errorf("transitions = %v, want %v", transitions, want)
	}
}
