package progress

import (
	"sort"
	"time"

	"github.com/qadatrack/qada/internal/utils"
)

// Streaks is the derived consecutive-day view over the fasted set.
type Streaks struct {
	Current int
	Longest int
}

// ComputeStreaks walks the day keys in calendar order tracking runs of
// exactly-adjacent days. A current streak only counts while its most recent
// day is today or yesterday relative to the supplied now; older than that
// and the active streak has lapsed to zero, though the longest run stands.
func ComputeStreaks(days []string, now time.Time) Streaks {
	if len(days) == 0 {
		return Streaks{}
	}

	loc := now.Location()
	dates := make([]time.Time, 0, len(days))
	for _, key := range days {
		d, err := utils.ParseDay(key, loc)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return Streaks{}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	run := 1
	longest := 1
	for i := 1; i < len(dates); i++ {
		if utils.DaysBetween(dates[i-1], dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := run
	if utils.DaysBetween(dates[len(dates)-1], now) > 1 {
		current = 0
	}

	return Streaks{Current: current, Longest: longest}
}
