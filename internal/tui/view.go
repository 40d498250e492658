package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/qadatrack/qada/internal/calendar"
	"github.com/qadatrack/qada/internal/notify"
	"github.com/qadatrack/qada/internal/prayer"
	"github.com/qadatrack/qada/internal/progress"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case stateDashboard:
		content = m.viewDashboard()
	case stateCalendar:
		content = m.viewCalendar()
	case stateReminders:
		content = m.viewReminders()
	case statePrayer:
		content = m.viewPrayer()
	case stateInfo:
		content = m.viewInfo()
	case stateGoalInput:
		content = m.viewGoalInput()
	case stateAddReminder, stateEditLocation:
		content = m.form.View()
	case stateConfirmReset:
		content = m.viewConfirmReset()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatusBar(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Dashboard", "Calendar", "Reminders", "Prayer", "Info"}
	active := tabFor(m.state)
	for i, title := range tabTitles {
		if active == sessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatusBar() string {
	if m.saveVisible {
		return savedStyle.Render("✓ saved")
	}
	return " "
}

func (m Model) viewDashboard() string {
	t := m.app.Tracker
	streaks := progress.ComputeStreaks(t.Days(), m.app.Clock.Now())

	var b strings.Builder
	b.WriteString(titleStyle.Render("Fast make-up progress") + "\n\n")
	b.WriteString(fmt.Sprintf("Goal:      %d days\n", t.Goal()))
	b.WriteString(fmt.Sprintf("Completed: %d days\n", t.Completed()))
	b.WriteString(fmt.Sprintf("Remaining: %d days\n", t.Remaining()))
	b.WriteString(fmt.Sprintf("Progress:  %s %d%%\n", dashboardBar(t.Percent()), t.Percent()))
	b.WriteString(fmt.Sprintf("Streak:    %d current / %d longest\n", streaks.Current, streaks.Longest))

	if t.Goal() > 0 && t.Remaining() == 0 {
		b.WriteString("\n" + fastedStyle.Render("All caught up. May it be accepted.") + "\n")
	}

	if !m.app.Settings().HintDismissed {
		b.WriteString("\n" + hintStyle.Render("Tip: mark days on the Calendar tab as you fast them. [x] dismiss") + "\n")
	}

	return docStyle.Render(b.String())
}

func dashboardBar(percent int) string {
	const width = 20
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func (m Model) viewGoalInput() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Set goal") + "\n\n")
	b.WriteString("How many days do you need to make up?\n\n")
	b.WriteString(m.goalInput.View() + "\n")
	if m.formError != "" {
		b.WriteString("\n" + dangerStyle.Render(m.formError) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter confirm · esc cancel") + "\n")
	return docStyle.Render(b.String())
}

func (m Model) viewConfirmReset() string {
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render("Clear every marked day? The goal is kept."),
		"",
		"[y] Yes",
		"[n] No",
	))
}

func (m Model) viewCalendar() string {
	cells := calendar.Grid(m.month, m.app.Tracker.DaySet(), m.app.Clock.Now())

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.month.String()) + "\n\n")
	b.WriteString(dimStyle.Render(" Mon  Tue  Wed  Thu  Fri  Sat  Sun") + "\n")

	for i, cell := range cells {
		b.WriteString(m.renderCalendarCell(cell, i == m.cursor))
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + dimStyle.Render("space toggle · [/] change month") + "\n")
	return docStyle.Render(b.String())
}

func (m Model) renderCalendarCell(cell calendar.Cell, selected bool) string {
	if !cell.IsCurrentMonth {
		return fillerStyle.Render("   · ")
	}

	label := fmt.Sprintf(" %2d ", cell.Date.Day())
	if cell.IsFasted {
		label = fmt.Sprintf(" %2d*", cell.Date.Day())
	}

	style := lipgloss.NewStyle()
	switch {
	case selected:
		style = cursorStyle
	case cell.IsToday:
		style = todayStyle
	case cell.IsFasted:
		style = fastedStyle
	}
	return style.Render(label) + " "
}

func (m Model) viewReminders() string {
	reminders := m.app.Scheduler.Reminders()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Reminders") + "\n\n")

	if len(reminders) == 0 {
		b.WriteString(dimStyle.Render("No reminders scheduled. Press a to add one.") + "\n")
	} else {
		for i, r := range reminders {
			prefix := "  "
			if i == m.reminderIdx {
				prefix = "> "
			}
			line := fmt.Sprintf("%s%s %s  %s", prefix, r.Date, r.Time, r.Message)
			if i == m.reminderIdx {
				line = cursorStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if m.formError != "" {
		b.WriteString("\n" + dangerStyle.Render(m.formError) + "\n")
	}

	switch m.app.Notifier.Permission() {
	case notify.PermissionGranted:
		b.WriteString("\n" + dimStyle.Render("notifications: granted") + "\n")
	case notify.PermissionDenied:
		b.WriteString("\n" + dangerStyle.Render("notifications: blocked, reminders will not be delivered") + "\n")
	default:
		b.WriteString("\n" + hintStyle.Render("Press n to enable notifications") + "\n")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewPrayer() string {
	settings := m.app.Settings()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Prayer times") + "\n\n")

	if settings.PrayerCity == "" {
		b.WriteString(dimStyle.Render("No location set. Press e to pick a city.") + "\n")
		return docStyle.Render(b.String())
	}

	b.WriteString(fmt.Sprintf("Location: %s, %s\n\n", settings.PrayerCity, settings.PrayerCountry))

	switch {
	case m.prayerLoading:
		b.WriteString(m.spin.View() + " Fetching...\n")
	case m.prayerErr != nil:
		b.WriteString(dangerStyle.Render(m.prayerErr.Error()) + "\n")
	case m.prayerTimings != nil:
		for _, name := range prayer.DisplayOrder {
			if t, ok := m.prayerTimings[name]; ok {
				b.WriteString(fmt.Sprintf("  %-8s %s\n", name, t))
			}
		}
	default:
		b.WriteString(dimStyle.Render("Press f to fetch today's times.") + "\n")
	}

	return docStyle.Render(b.String())
}

func (m Model) viewInfo() string {
	out, err := glamour.Render(infoMarkdown, "dark")
	if err != nil {
		return docStyle.Render(infoMarkdown)
	}
	return out
}
