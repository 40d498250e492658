package calendar

import (
	"time"

	"github.com/qadatrack/qada/internal/utils"
)

// Cell is one position of a rendered month grid. Cells are derived on every
// view change and never persisted.
type Cell struct {
	Date           time.Time
	IsCurrentMonth bool
	IsToday        bool
	IsFasted       bool
}

// Month identifies a viewed month. Navigation is unbounded in both
// directions.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Next() Month {
	return MonthOf(m.first(time.UTC).AddDate(0, 1, 0))
}

func (m Month) Previous() Month {
	return MonthOf(m.first(time.UTC).AddDate(0, -1, 0))
}

func (m Month) String() string {
	return m.first(time.UTC).Format("January 2006")
}

func (m Month) first(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

// Grid produces the cells for a month view: leading pad days from the
// previous month so the first row starts on Monday, every day of the viewed
// month, and trailing pad days from the next month up to a full 5- or 6-row
// grid (35 or 42 cells).
func Grid(m Month, fasted map[string]bool, today time.Time) []Cell {
	loc := today.Location()
	first := m.first(loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday-based weekday index (0=Mon..6=Sun).
	lead := (int(first.Weekday()) + 6) % 7

	cells := make([]Cell, 0, 42)
	for i := lead; i > 0; i-- {
		cells = append(cells, newCell(first.AddDate(0, 0, -i), false, fasted, today))
	}
	for d := 0; d < daysInMonth; d++ {
		cells = append(cells, newCell(first.AddDate(0, 0, d), true, fasted, today))
	}

	total := 35
	if len(cells) > 35 {
		total = 42
	}
	next := first.AddDate(0, 0, daysInMonth)
	for i := 0; len(cells) < total; i++ {
		cells = append(cells, newCell(next.AddDate(0, 0, i), false, fasted, today))
	}

	return cells
}

func newCell(date time.Time, current bool, fasted map[string]bool, today time.Time) Cell {
	key := utils.DayKey(date)
	return Cell{
		Date:           date,
		IsCurrentMonth: current,
		IsToday:        key == utils.DayKey(today),
		IsFasted:       fasted[key],
	}
}
