package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/qadatrack/qada/internal/calendar"
	"github.com/qadatrack/qada/internal/constants"
	"github.com/qadatrack/qada/internal/models"
	"github.com/qadatrack/qada/internal/notify"
	"github.com/qadatrack/qada/internal/prayer"
	"github.com/qadatrack/qada/internal/utils"
	"github.com/qadatrack/qada/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case SaveIndicatorMsg:
		m.saveVisible = msg.Visible
		return m, nil
	case prayerResultMsg:
		m.prayerLoading = false
		m.prayerTimings = msg.timings
		m.prayerErr = msg.err
		return m, nil
	case spinner.TickMsg:
		if !m.prayerLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	switch m.state {
	case stateGoalInput:
		return m.updateGoalInput(msg)
	case stateAddReminder:
		return m.updateAddReminder(msg)
	case stateEditLocation:
		return m.updateEditLocation(msg)
	case stateConfirmReset:
		return m.updateConfirmReset(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// Global keys on the main tabs.
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = nextTab(m.state)
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = prevTab(m.state)
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.state {
	case stateDashboard:
		return m.updateDashboard(keyMsg)
	case stateCalendar:
		return m.updateCalendar(keyMsg)
	case stateReminders:
		return m.updateReminders(keyMsg)
	case statePrayer:
		return m.updatePrayer(keyMsg)
	}
	return m, nil
}

func nextTab(s sessionState) sessionState {
	switch tabFor(s) {
	case stateDashboard:
		return stateCalendar
	case stateCalendar:
		return stateReminders
	case stateReminders:
		return statePrayer
	case statePrayer:
		return stateInfo
	default:
		return stateDashboard
	}
}

func prevTab(s sessionState) sessionState {
	switch tabFor(s) {
	case stateDashboard:
		return stateInfo
	case stateCalendar:
		return stateDashboard
	case stateReminders:
		return stateCalendar
	case statePrayer:
		return stateReminders
	default:
		return statePrayer
	}
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Goal):
		m.goalInput.SetValue("")
		m.goalInput.Focus()
		m.formError = ""
		m.state = stateGoalInput
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Reset):
		m.state = stateConfirmReset
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		if !m.app.Settings().HintDismissed {
			m.app.UpdateSettings(func(s *models.Settings) {
				s.HintDismissed = true
			})
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateGoalInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEsc:
			m.state = stateDashboard
			return m, nil
		case tea.KeyEnter:
			n, err := validation.Goal(m.goalInput.Value())
			if err != nil {
				m.formError = err.Error()
				return m, nil
			}
			m.app.Tracker.SetGoal(n)
			m.formError = ""
			m.state = stateDashboard
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.goalInput, cmd = m.goalInput.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y":
		m.app.Tracker.Reset()
		m.state = stateDashboard
	case "n", "esc", "q":
		m.state = stateDashboard
	}
	return m, nil
}

func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cells := calendar.Grid(m.month, m.app.Tracker.DaySet(), m.app.Clock.Now())
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor-7 >= 0 {
			m.cursor -= 7
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+7 < len(cells) {
			m.cursor += 7
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(cells)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevMon):
		m.month = m.month.Previous()
		m.cursor = todayCursor(m.app, m.month)
	case key.Matches(msg, m.keys.NextMon):
		m.month = m.month.Next()
		m.cursor = todayCursor(m.app, m.month)
	case key.Matches(msg, m.keys.Toggle):
		cell := cells[m.cursor]
		if cell.IsCurrentMonth {
			m.app.Tracker.ToggleDay(utils.DayKey(cell.Date))
		}
	}
	return m, nil
}

func (m Model) updateReminders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	reminders := m.app.Scheduler.Reminders()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.reminderIdx > 0 {
			m.reminderIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.reminderIdx < len(reminders)-1 {
			m.reminderIdx++
		}
	case key.Matches(msg, m.keys.Delete):
		if m.reminderIdx < len(reminders) {
			m.app.Scheduler.Delete(reminders[m.reminderIdx].ID)
			if m.reminderIdx > 0 {
				m.reminderIdx--
			}
		}
	case key.Matches(msg, m.keys.Enable):
		if m.app.Notifier.Permission() != notify.PermissionGranted {
			if m.app.Notifier.Request() == notify.PermissionGranted {
				m.app.Scheduler.Reconcile()
				m.formError = ""
			} else {
				m.formError = "Notification agent not reachable; is it running?"
			}
		}
	case key.Matches(msg, m.keys.Add):
		if m.app.Notifier.Permission() == notify.PermissionDenied {
			m.formError = "Notifications are blocked; reminders cannot be scheduled."
			return m, nil
		}
		m.reminderForm = &ReminderFormModel{
			Date: utils.DayKey(m.app.Clock.Now()),
			Time: "20:00",
		}
		m.form = newReminderForm(m.reminderForm)
		m.formError = ""
		m.state = stateAddReminder
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateAddReminder(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = stateReminders
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		_, err := m.app.Scheduler.Add(m.reminderForm.Date, m.reminderForm.Time, m.reminderForm.Message)
		if err != nil {
			m.formError = fmt.Sprintf("Failed to add reminder: %v", err)
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.formError = ""
		m.state = stateReminders
	case huh.StateAborted:
		m.state = stateReminders
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updatePrayer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		settings := m.app.Settings()
		if settings.PrayerCity == "" || settings.PrayerCountry == "" {
			m.prayerErr = fmt.Errorf("no location set, press e to pick one")
			return m, nil
		}
		m.prayerLoading = true
		m.prayerErr = nil
		return m, tea.Batch(m.spin.Tick, m.fetchPrayerTimes(settings))
	case key.Matches(msg, m.keys.Edit):
		settings := m.app.Settings()
		m.locationForm = &LocationFormModel{
			City:    settings.PrayerCity,
			Country: settings.PrayerCountry,
			Method:  settings.PrayerMethod,
		}
		if m.locationForm.Method == 0 {
			m.locationForm.Method = constants.DefaultPrayerMethod
		}
		m.form = newLocationForm(m.locationForm)
		m.formError = ""
		m.state = stateEditLocation
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateEditLocation(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = statePrayer
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		city := strings.TrimSpace(m.locationForm.City)
		country := strings.TrimSpace(m.locationForm.Country)
		method := m.locationForm.Method
		m.app.UpdateSettings(func(s *models.Settings) {
			s.PrayerCity = city
			s.PrayerCountry = country
			s.PrayerMethod = method
		})
		m.state = statePrayer
		m.prayerLoading = true
		m.prayerErr = nil
		cmds = append(cmds, m.spin.Tick, m.fetchPrayerTimes(m.app.Settings()))
	case huh.StateAborted:
		m.state = statePrayer
	}
	return m, tea.Batch(cmds...)
}

func (m Model) fetchPrayerTimes(settings models.Settings) tea.Cmd {
	client := m.app.Prayer
	date := m.app.Clock.Now()
	method := settings.PrayerMethod
	if method == 0 {
		method = constants.DefaultPrayerMethod
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		timings, err := client.ByCity(ctx, date, settings.PrayerCity, settings.PrayerCountry, method)
		return prayerResultMsg{timings: timings, err: err}
	}
}

func newReminderForm(fm *ReminderFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&fm.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateFormat, s); err != nil {
						return fmt.Errorf("expected YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Time").
				Description("HH:MM").
				Value(&fm.Time).
				Validate(func(s string) error {
					if _, err := utils.ParseTime(s); err != nil {
						return fmt.Errorf("expected HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("Message").
				Value(&fm.Message).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("message cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func newLocationForm(fm *LocationFormModel) *huh.Form {
	methodOptions := make([]huh.Option[int], len(prayer.Methods))
	for i, method := range prayer.Methods {
		methodOptions[i] = huh.NewOption(method.Name, method.ID)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("City").
				Value(&fm.City).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("city cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Country").
				Value(&fm.Country).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("country cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[int]().
				Title("Calculation method").
				Options(methodOptions...).
				Value(&fm.Method),
		),
	).WithTheme(huh.ThemeDracula())
}
