package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/qadatrack/qada/internal/calendar"
)

type CalendarCmd struct {
	Month string `help:"Month to render (YYYY-MM). Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	now := a.Clock.Now()
	month := calendar.MonthOf(now)
	if c.Month != "" {
		t, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month format (expected YYYY-MM): %w", err)
		}
		month = calendar.MonthOf(t)
	}

	cells := calendar.Grid(month, a.Tracker.DaySet(), now)
	fmt.Print(renderCalendar(month, cells))
	return nil
}

// renderCalendar lays the cells out in Monday-start weeks, four columns
// per day: today in brackets, made-up days starred, filler days dotted.
func renderCalendar(month calendar.Month, cells []calendar.Cell) string {
	var b strings.Builder

	title := month.String()
	width := 7 * 4
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(" Mon Tue Wed Thu Fri Sat Sun\n")

	for i, cell := range cells {
		b.WriteString(renderCell(cell))
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n * made up   [ ] today\n")
	return b.String()
}

func renderCell(cell calendar.Cell) string {
	if !cell.IsCurrentMonth {
		return "   ·"
	}
	day := cell.Date.Day()
	switch {
	case cell.IsToday:
		return fmt.Sprintf("[%2d]", day)
	case cell.IsFasted:
		return fmt.Sprintf(" %2d*", day)
	default:
		return fmt.Sprintf(" %2d ", day)
	}
}
