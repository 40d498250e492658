package progress

import (
	"testing"
	"time"

	"github.com/qadatrack/qada/internal/utils"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := utils.ParseDay(key, time.UTC)
	if err != nil {
		t.Fatalf("bad day key %q: %v", key, err)
	}
	return d
}

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name        string
		days        []string
		now         string
		wantCurrent int
		wantLongest int
	}{
		{
			name: "empty set",
			days: nil,
			now:  "2024-03-10",
		},
		{
			name:        "single day today",
			days:        []string{"2024-03-10"},
			now:         "2024-03-10",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "single day yesterday still counts",
			days:        []string{"2024-03-09"},
			now:         "2024-03-10",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "single day in the past has lapsed",
			days:        []string{"2024-03-01"},
			now:         "2024-03-10",
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name:        "lapsed run keeps longest",
			days:        []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-05"},
			now:         "2024-03-10",
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name:        "today and yesterday",
			days:        []string{"2024-03-09", "2024-03-10"},
			now:         "2024-03-10",
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "active run shorter than an older one",
			days:        []string{"2024-02-01", "2024-02-02", "2024-02-03", "2024-02-04", "2024-03-09", "2024-03-10"},
			now:         "2024-03-10",
			wantCurrent: 2,
			wantLongest: 4,
		},
		{
			name:        "run crossing a month boundary",
			days:        []string{"2024-02-28", "2024-02-29", "2024-03-01"},
			now:         "2024-03-01",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "unsorted input",
			days:        []string{"2024-03-03", "2024-03-01", "2024-03-02"},
			now:         "2024-03-03",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "malformed keys are skipped",
			days:        []string{"garbage", "2024-03-10"},
			now:         "2024-03-10",
			wantCurrent: 1,
			wantLongest: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStreaks(tt.days, day(t, tt.now))
			if got.Current != tt.wantCurrent || got.Longest != tt.wantLongest {
				t.Errorf("ComputeStreaks() = {Current:%d Longest:%d}, want {Current:%d Longest:%d}",
					got.Current, got.Longest, tt.wantCurrent, tt.wantLongest)
			}
		})
	}
}

func TestComputeStreaksAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2024-03-10 is the US spring-forward day, only 23 hours long; the
	// run must still count it as adjacent to 2024-03-11.
	now := time.Date(2024, 3, 11, 12, 0, 0, 0, loc)
	got := ComputeStreaks([]string{"2024-03-10", "2024-03-11"}, now)
	if got.Current != 2 || got.Longest != 2 {
		t.Errorf("ComputeStreaks() = {Current:%d Longest:%d}, want {Current:2 Longest:2}",
			got.Current, got.Longest)
	}

	// Lapse check across fall back: 2024-11-03 is 25 hours long, so a
	// day marked yesterday must still be within the grace window.
	now = time.Date(2024, 11, 4, 12, 0, 0, 0, loc)
	got = ComputeStreaks([]string{"2024-11-03"}, now)
	if got.Current != 1 {
		t.Errorf("Current = %d, want 1 for a day marked yesterday", got.Current)
	}
}
