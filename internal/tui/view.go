package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mayatruitt/habitpal/internal/analytics"
	"github.com/mayatruitt/habitpal/internal/models"
	"github.com/mayatruitt/habitpal/internal/rewards"
)

var moodFaces = map[models.MoodState]string{
	models.MoodHappy:     "(^o^)",
	models.MoodIdeal:     "(^-^)",
	models.MoodPlay:      "(>w<)",
	models.MoodSleepy:    "(-_-)zzz",
	models.MoodHungry:    "(o_o)",
	models.MoodPassedOut: "(x_x)",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = m.viewDashboard()
	case StateGoals:
		content = m.viewGoals()
	case StateStats:
		content = m.viewStats()
	case StateRewards:
		content = m.viewRewards()
	case StateEditing:
		content = m.viewForm()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	status := ""
	if m.statusMsg != "" {
		status = m.statusMsg
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Dashboard", "Goals", "Stats", "Rewards"}
	for i, title := range tabTitles {
		state := m.state
		if state == StateEditing || state == StateConfirmDelete {
			state = m.previousState
		}
		if state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDashboard() string {
	status := m.svc.Companion()

	var b strings.Builder
	face := moodFaces[status.Mood]
	b.WriteString(moodStyle.Render(fmt.Sprintf("%s  %s", face, status.Mood)))
	b.WriteString("\n\n")

	b.WriteString(renderDimension("Energy", status.Energy))
	b.WriteString(renderDimension("Hydration", status.Hydration))
	b.WriteString(renderDimension("Satisfaction", status.Satisfaction))
	b.WriteString(renderDimension("Happiness", status.Happiness))
	b.WriteString("\n")

	b.WriteString("Today:\n")
	now := time.Now()
	for i, tr := range m.svc.Trackers() {
		goal := tr.Goal()
		if !goal.IsActive {
			continue
		}

		line := fmt.Sprintf("%s %d/%d %s", renderBar(float64(tr.CompletedCount())/float64(goal.TargetCount)*100, 10),
			tr.CompletedCount(), goal.TargetCount, goal.Title)
		switch {
		case tr.IsComplete():
			line = completeStyle.Render("✓ " + line)
		case !tr.CanLog() && !goal.RequiresSession:
			line += dimStyle.Render(fmt.Sprintf("  cooldown %s", tr.CooldownEnd().Sub(now).Round(time.Second)))
		}
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	return docStyle.Render(b.String())
}

func (m Model) viewGoals() string {
	var b strings.Builder
	b.WriteString("Goals\n\n")

	for i, tr := range m.svc.Trackers() {
		goal := tr.Goal()

		cursor := "  "
		if i == m.cursor {
			cursor = selectedStyle.Render("> ")
		}

		state := ""
		if !goal.IsActive {
			state = dimStyle.Render(" [inactive]")
		}
		kind := string(goal.Category)
		if goal.RequiresSession {
			kind += ", sessions"
		}
		if goal.IsDefault {
			kind += ", built-in"
		}

		b.WriteString(fmt.Sprintf("%s%-24s %d/day (%s)%s\n", cursor, goal.Title, goal.TargetCount, kind, state))
		if goal.ReminderTime != "" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("      reminder at %s\n", goal.ReminderTime)))
		}
	}

	if m.formError != "" {
		b.WriteString("\n" + dangerStyle.Render(m.formError) + "\n")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewStats() string {
	agg := m.svc.Analytics()
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Week of %s\n\n", analytics.WeekStart(time.Now()).Format("Jan 2")))

	for _, tr := range m.svc.Trackers() {
		goal := tr.Goal()
		bucket, ok := agg.Bucket(goal.ID)
		if !ok {
			continue
		}

		b.WriteString(fmt.Sprintf("%-24s weekly %3.0f%%\n", goal.Title, agg.WeeklyCompletionRate(goal.ID)*100))
		b.WriteString("  ")
		for i, day := range bucket.Days {
			marker := dimStyle.Render("·")
			switch {
			case day.TargetCount > 0 && day.CompletedCount >= day.TargetCount:
				marker = completeStyle.Render("✓")
			case day.CompletedCount > 0:
				marker = fmt.Sprintf("%d", day.CompletedCount)
			}
			b.WriteString(fmt.Sprintf("%s %s  ", days[i], marker))
		}
		b.WriteString("\n")
		if agg.IsPerfectWeek(goal.ID) {
			b.WriteString(completeStyle.Render("  Perfect week so far!") + "\n")
		}
		b.WriteString("\n")
	}

	return docStyle.Render(b.String())
}

func (m Model) viewRewards() string {
	eng := m.svc.Rewards()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total points: %d\n\n", eng.TotalPoints()))

	b.WriteString("Streaks:\n")
	for _, tr := range m.svc.Trackers() {
		goal := tr.Goal()
		streak := eng.Streak(goal.ID)
		flame := ""
		if streak.CurrentStreak >= 3 {
			flame = " 🔥"
		}
		b.WriteString(fmt.Sprintf("  %-24s current %2d  best %2d%s\n", goal.Title, streak.CurrentStreak, streak.BestStreak, flame))
	}
	b.WriteString("\nAchievements:\n")

	for _, a := range eng.Achievements() {
		if a.IsCompleted {
			b.WriteString(completeStyle.Render(fmt.Sprintf("  ★ %s %s (+%d pts)", a.Type, a.Level, rewards.Points(a.Type, a.Level))) + "\n")
			continue
		}
		if a.Progress == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s %s %.0f%%\n", renderBar(a.Progress*100, 10), a.Type, a.Level, a.Progress*100))
	}

	return docStyle.Render(b.String())
}

func (m Model) viewForm() string {
	header := "New goal"
	if m.editingGoal != nil {
		header = fmt.Sprintf("Edit %s", m.editingGoal.Title)
	}
	body := m.form.View()
	if m.formError != "" {
		body = dangerStyle.Render(m.formError) + "\n\n" + body
	}
	return docStyle.Render(header + "\n\n" + body)
}

func (m Model) viewConfirmDelete() string {
	title := m.goalToDelete
	if tr, ok := m.svc.Tracker(m.goalToDelete); ok {
		title = tr.Goal().Title
	}
	return docStyle.Render(dangerStyle.Render(fmt.Sprintf("Delete %q and all of its history?", title)) + "\n\n(y/n)")
}

func renderDimension(name string, value float64) string {
	return fmt.Sprintf("  %-13s %s %3.0f\n", name, renderBar(value, 20), value)
}

// renderBar draws a colored bar for a 0-100 value.
func renderBar(value float64, width int) string {
	filled := int(value) * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return barStyle(value).Render(bar)
}
