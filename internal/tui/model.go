package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mayatruitt/habitpal/internal/constants"
	"github.com/mayatruitt/habitpal/internal/goals"
	"github.com/mayatruitt/habitpal/internal/models"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateGoals
	StateStats
	StateRewards
	StateEditing
	StateConfirmDelete
)

// GoalFormModel backs the add/edit goal form. Numeric fields stay strings
// until submit; huh inputs edit text.
type GoalFormModel struct {
	Title    string
	Category models.GoalCategory
	Target   string
	Cooldown string
	Reminder string
	Active   bool
}

type tickMsg time.Time

type Model struct {
	svc           *goals.Service
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	cursor       int
	form         *huh.Form
	goalForm     *GoalFormModel
	editingGoal  *models.Goal
	goalToDelete string

	statusMsg string
	formError string
	today     string
	quitting  bool
	width     int
	height    int
}

func NewModel(svc *goals.Service) Model {
	return Model{
		svc:   svc,
		state: StateDashboard,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		today: time.Now().Format(constants.DateFormat),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// tick drives the periodic redraw; decay itself runs on the service's own
// ticker.
func tick() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
