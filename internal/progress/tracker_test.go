package progress

import (
	"reflect"
	"testing"
)

func TestToggleDayInvolution(t *testing.T) {
	tr := New(10, []string{"2024-03-01"})

	for _, key := range []string{"2024-03-01", "2024-03-02"} {
		before := tr.Days()
		tr.ToggleDay(key)
		tr.ToggleDay(key)
		if got := tr.Days(); !reflect.DeepEqual(got, before) {
			t.Errorf("double toggle of %s changed set: %v -> %v", key, before, got)
		}
	}
}

func TestAddRemoveDayIdempotent(t *testing.T) {
	tr := New(0, nil)

	if !tr.AddDay("2024-03-01") {
		t.Error("first AddDay should report a change")
	}
	if tr.AddDay("2024-03-01") {
		t.Error("second AddDay should be a no-op")
	}
	if tr.Completed() != 1 {
		t.Errorf("Completed() = %d, want 1", tr.Completed())
	}

	if !tr.RemoveDay("2024-03-01") {
		t.Error("first RemoveDay should report a change")
	}
	if tr.RemoveDay("2024-03-01") {
		t.Error("second RemoveDay should be a no-op")
	}
	if tr.Completed() != 0 {
		t.Errorf("Completed() = %d, want 0", tr.Completed())
	}
}

func TestSetGoalClamps(t *testing.T) {
	tr := New(0, nil)

	tr.SetGoal(-5)
	if tr.Goal() != 0 {
		t.Errorf("Goal() = %d, want 0 after negative input", tr.Goal())
	}

	tr.SetGoal(30)
	if tr.Goal() != 30 {
		t.Errorf("Goal() = %d, want 30", tr.Goal())
	}
}

func TestDerivedCounts(t *testing.T) {
	tests := []struct {
		name          string
		goal          int
		days          []string
		wantRemaining int
		wantPercent   int
	}{
		{name: "no goal", goal: 0, days: []string{"2024-03-01"}, wantRemaining: 0, wantPercent: 0},
		{name: "halfway", goal: 2, days: []string{"2024-03-01"}, wantRemaining: 1, wantPercent: 50},
		{name: "complete", goal: 2, days: []string{"2024-03-01", "2024-03-02"}, wantRemaining: 0, wantPercent: 100},
		{name: "over goal clamps remaining", goal: 1, days: []string{"2024-03-01", "2024-03-02"}, wantRemaining: 0, wantPercent: 200},
		{name: "rounds percent", goal: 3, days: []string{"2024-03-01"}, wantRemaining: 2, wantPercent: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.goal, tt.days)
			if got := tr.Remaining(); got != tt.wantRemaining {
				t.Errorf("Remaining() = %d, want %d", got, tt.wantRemaining)
			}
			if got := tr.Percent(); got != tt.wantPercent {
				t.Errorf("Percent() = %d, want %d", got, tt.wantPercent)
			}
		})
	}
}

func TestRemainingHoldsAfterMutationSequence(t *testing.T) {
	tr := New(5, nil)

	seq := []func(){
		func() { tr.ToggleDay("2024-03-01") },
		func() { tr.AddDay("2024-03-02") },
		func() { tr.ToggleDay("2024-03-01") },
		func() { tr.SetGoal(3) },
		func() { tr.AddDay("2024-03-03") },
		func() { tr.RemoveDay("2024-03-02") },
	}
	for _, step := range seq {
		step()
		want := tr.Goal() - tr.Completed()
		if want < 0 {
			want = 0
		}
		if got := tr.Remaining(); got != want {
			t.Fatalf("Remaining() = %d, want %d (goal=%d completed=%d)",
				got, want, tr.Goal(), tr.Completed())
		}
	}
}

func TestResetClearsDays(t *testing.T) {
	tr := New(10, []string{"2024-03-01", "2024-03-02"})
	tr.Reset()
	if tr.Completed() != 0 {
		t.Errorf("Completed() = %d after reset, want 0", tr.Completed())
	}
	if tr.Goal() != 10 {
		t.Errorf("Goal() = %d after reset, want 10 (goal survives reset)", tr.Goal())
	}
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	tr := New(0, nil)
	var calls int
	tr.SetOnChange(func() { calls++ })

	tr.SetGoal(5)
	tr.ToggleDay("2024-03-01")
	tr.AddDay("2024-03-01") // no-op, no event
	tr.RemoveDay("2024-03-01")
	tr.RemoveDay("2024-03-01") // no-op, no event
	tr.Reset()

	if calls != 4 {
		t.Errorf("change hook fired %d times, want 4", calls)
	}
}
