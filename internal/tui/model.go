package tui

import (
	_ "embed"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/qadatrack/qada/internal/app"
	"github.com/qadatrack/qada/internal/calendar"
	"github.com/qadatrack/qada/internal/prayer"
)

//go:embed info.md
var infoMarkdown string

type sessionState int

const (
	stateDashboard sessionState = iota
	stateCalendar
	stateReminders
	statePrayer
	stateInfo
	stateGoalInput
	stateAddReminder
	stateEditLocation
	stateConfirmReset
)

// tabFor maps sub-states back to the tab they belong to.
func tabFor(s sessionState) sessionState {
	switch s {
	case stateGoalInput, stateConfirmReset:
		return stateDashboard
	case stateAddReminder:
		return stateReminders
	case stateEditLocation:
		return statePrayer
	default:
		return s
	}
}

// SaveIndicatorMsg is sent from outside the program when the save
// indicator changes visibility.
type SaveIndicatorMsg struct {
	Visible bool
}

type prayerResultMsg struct {
	timings prayer.Timings
	err     error
}

type ReminderFormModel struct {
	Date    string
	Time    string
	Message string
}

type LocationFormModel struct {
	City    string
	Country string
	Method  int
}

type Model struct {
	app           *app.App
	state         sessionState
	keys          KeyMap
	help          help.Model
	goalInput     textinput.Model
	spin          spinner.Model
	form          *huh.Form
	reminderForm  *ReminderFormModel
	locationForm  *LocationFormModel
	month         calendar.Month
	cursor        int // index into the calendar grid
	reminderIdx   int
	saveVisible   bool
	formError     string
	prayerTimings prayer.Timings
	prayerErr     error
	prayerLoading bool
	quitting      bool
	width         int
	height        int
}

func NewModel(a *app.App) Model {
	ti := textinput.New()
	ti.Placeholder = "days"
	ti.CharLimit = 4
	ti.Width = 8

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	now := a.Clock.Now()

	return Model{
		app:       a,
		state:     stateDashboard,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		goalInput: ti,
		spin:      sp,
		month:     calendar.MonthOf(now),
		cursor:    todayCursor(a, calendar.MonthOf(now)),
	}
}

// todayCursor positions the calendar cursor on today's cell when the
// month contains it, else on the first current-month cell.
func todayCursor(a *app.App, m calendar.Month) int {
	cells := calendar.Grid(m, nil, a.Clock.Now())
	first := 0
	for i, c := range cells {
		if c.IsToday {
			return i
		}
		if c.IsCurrentMonth && first == 0 {
			first = i
		}
	}
	return first
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case stateDashboard:
		keys = append(keys, m.keys.Goal, m.keys.Reset)
	case stateCalendar:
		keys = append(keys, m.keys.Toggle)
	case stateReminders:
		keys = append(keys, m.keys.Add, m.keys.Delete, m.keys.Enable)
	case statePrayer:
		keys = append(keys, m.keys.Refresh, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Enter}
	actions := []key.Binding{m.keys.Goal, m.keys.Toggle, m.keys.Add, m.keys.Delete, m.keys.Refresh, m.keys.Reset, m.keys.Dismiss}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}
