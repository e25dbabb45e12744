package tui

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mayatruitt/habitpal/internal/constants"
	"github.com/mayatruitt/habitpal/internal/models"
	"github.com/mayatruitt/habitpal/internal/tracker"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		// Day rollover regenerates schedules and prunes last week's stats
		today := time.Now().Format(constants.DateFormat)
		if today != m.today {
			m.today = today
			m.svc.Refresh()
		}
		return m, tick()
	}

	if m.state == StateEditing {
		return m.updateForm(msg)
	}
	if m.state == StateConfirmDelete {
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.state = nextState(m.state)
		m.cursor = 0
		return m, nil

	case "shift+tab":
		m.state = prevState(m.state)
		m.cursor = 0
		return m, nil

	case "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.svc.Trackers())-1 {
			m.cursor++
		}
		return m, nil

	case "enter", "l":
		if m.state == StateDashboard || m.state == StateGoals {
			return m.logSelected()
		}
		return m, nil

	case "s":
		if m.state == StateDashboard || m.state == StateGoals {
			return m.completeSelectedSession()
		}
		return m, nil

	case "a":
		if m.state == StateGoals {
			return m.toggleSelected()
		}
		return m, nil

	case "n":
		if m.state == StateGoals {
			return m.openAddForm()
		}
		return m, nil

	case "e":
		if m.state == StateGoals {
			return m.openEditForm()
		}
		return m, nil

	case "d":
		if m.state == StateGoals {
			if tr, ok := m.selectedTracker(); ok {
				if tr.Goal().IsDefault {
					m.statusMsg = warningStyle.Render("Built-in goals can be deactivated, not deleted")
					return m, nil
				}
				m.goalToDelete = tr.Goal().ID
				m.previousState = m.state
				m.state = StateConfirmDelete
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) selectedTracker() (*tracker.Tracker, bool) {
	trackers := m.svc.Trackers()
	if m.cursor < 0 || m.cursor >= len(trackers) {
		return nil, false
	}
	return trackers[m.cursor], true
}

func (m Model) logSelected() (tea.Model, tea.Cmd) {
	tr, ok := m.selectedTracker()
	if !ok {
		return m, nil
	}
	goal := tr.Goal()

	if goal.RequiresSession {
		m.statusMsg = warningStyle.Render(fmt.Sprintf("%s completes through sessions, press s", goal.Title))
		return m, nil
	}

	var entryID, subtype string
	for _, entry := range tr.Entries() {
		if !entry.Completed {
			entryID = entry.ID
			subtype = entry.Subtype
			break
		}
	}
	if entryID == "" {
		m.statusMsg = completeStyle.Render(fmt.Sprintf("%s is already done for today", goal.Title))
		return m, nil
	}

	if _, err := m.svc.LogEntry(goal.ID, entryID, subtype); err != nil {
		m.statusMsg = warningStyle.Render(err.Error())
		return m, nil
	}
	m.statusMsg = completeStyle.Render(fmt.Sprintf("Logged %s: %d/%d", goal.Title, tr.CompletedCount(), goal.TargetCount))
	return m, nil
}

func (m Model) completeSelectedSession() (tea.Model, tea.Cmd) {
	tr, ok := m.selectedTracker()
	if !ok {
		return m, nil
	}
	goal := tr.Goal()
	if !goal.RequiresSession {
		m.statusMsg = warningStyle.Render(fmt.Sprintf("%s logs directly, press enter", goal.Title))
		return m, nil
	}

	if _, err := m.svc.CompleteSession(goal.ID); err != nil {
		m.statusMsg = warningStyle.Render(err.Error())
		return m, nil
	}
	m.statusMsg = completeStyle.Render(fmt.Sprintf("Session logged for %s", goal.Title))
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	tr, ok := m.selectedTracker()
	if !ok {
		return m, nil
	}
	goal := tr.Goal()
	goal.IsActive = !goal.IsActive

	if err := m.svc.UpdateGoal(goal); err != nil {
		m.statusMsg = warningStyle.Render(err.Error())
		return m, nil
	}
	if goal.IsActive {
		m.statusMsg = completeStyle.Render(fmt.Sprintf("%s reactivated", goal.Title))
	} else {
		m.statusMsg = dimStyle.Render(fmt.Sprintf("%s deactivated", goal.Title))
	}
	return m, nil
}

func (m Model) openAddForm() (tea.Model, tea.Cmd) {
	m.goalForm = &GoalFormModel{
		Category: models.CategoryWater,
		Target:   "1",
		Cooldown: "0",
		Active:   true,
	}
	m.editingGoal = nil
	m.form = newGoalForm(m.goalForm, false)
	m.previousState = m.state
	m.state = StateEditing
	m.formError = ""
	return m, m.form.Init()
}

func (m Model) openEditForm() (tea.Model, tea.Cmd) {
	tr, ok := m.selectedTracker()
	if !ok {
		return m, nil
	}
	goal := tr.Goal()

	m.goalForm = &GoalFormModel{
		Title:    goal.Title,
		Category: goal.Category,
		Target:   strconv.Itoa(goal.TargetCount),
		Cooldown: strconv.Itoa(goal.IntervalSeconds / 60),
		Reminder: goal.ReminderTime,
		Active:   goal.IsActive,
	}
	m.editingGoal = &goal
	m.form = newGoalForm(m.goalForm, true)
	m.previousState = m.state
	m.state = StateEditing
	m.formError = ""
	return m, m.form.Init()
}

func newGoalForm(f *GoalFormModel, editing bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().Title("Title").Value(&f.Title),
	}
	if !editing {
		fields = append(fields,
			huh.NewSelect[models.GoalCategory]().
				Title("Category").
				Options(
					huh.NewOption("Water", models.CategoryWater),
					huh.NewOption("Meal", models.CategoryMeal),
					huh.NewOption("Break", models.CategoryBreak),
					huh.NewOption("Meditation", models.CategoryMeditation),
				).
				Value(&f.Category),
		)
	}
	fields = append(fields,
		huh.NewInput().Title("Daily target").Value(&f.Target),
		huh.NewInput().Title("Cooldown (minutes)").Value(&f.Cooldown),
		huh.NewInput().Title("Reminder (HH:MM, empty for none)").Value(&f.Reminder),
		huh.NewConfirm().Title("Active").Value(&f.Active),
	)
	return huh.NewForm(huh.NewGroup(fields...))
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if err := m.submitGoalForm(); err != nil {
			m.formError = err.Error()
			m.form = newGoalForm(m.goalForm, m.editingGoal != nil)
			return m, m.form.Init()
		}
		m.formError = ""
		m.state = m.previousState
		return m, nil
	}
	if m.form.State == huh.StateAborted {
		m.state = m.previousState
		return m, nil
	}

	return m, cmd
}

func (m *Model) submitGoalForm() error {
	target, err := strconv.Atoi(m.goalForm.Target)
	if err != nil {
		return fmt.Errorf("target must be a number")
	}
	cooldown, err := strconv.Atoi(m.goalForm.Cooldown)
	if err != nil {
		return fmt.Errorf("cooldown must be a number")
	}

	if m.editingGoal != nil {
		goal := *m.editingGoal
		goal.Title = m.goalForm.Title
		goal.TargetCount = target
		goal.IntervalSeconds = cooldown * 60
		goal.ReminderTime = m.goalForm.Reminder
		goal.IsActive = m.goalForm.Active
		return m.svc.UpdateGoal(goal)
	}

	_, err = m.svc.AddGoal(models.Goal{
		Title:           m.goalForm.Title,
		Category:        m.goalForm.Category,
		TargetCount:     target,
		IntervalSeconds: cooldown * 60,
		ReminderTime:    m.goalForm.Reminder,
	})
	return err
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			if err := m.svc.DeleteGoal(m.goalToDelete); err != nil {
				m.statusMsg = warningStyle.Render(err.Error())
			} else {
				m.statusMsg = dimStyle.Render("Goal deleted")
				if m.cursor > 0 {
					m.cursor--
				}
			}
			m.goalToDelete = ""
			m.state = m.previousState
			return m, nil
		case "n", "N", "esc":
			m.goalToDelete = ""
			m.state = m.previousState
			return m, nil
		}
	}
	return m, nil
}

func nextState(s SessionState) SessionState {
	switch s {
	case StateDashboard:
		return StateGoals
	case StateGoals:
		return StateStats
	case StateStats:
		return StateRewards
	default:
		return StateDashboard
	}
}

func prevState(s SessionState) SessionState {
	switch s {
	case StateDashboard:
		return StateRewards
	case StateGoals:
		return StateDashboard
	case StateStats:
		return StateGoals
	default:
		return StateStats
	}
}
