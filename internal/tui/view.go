package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekgrid/internal/errors"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateSchedule:
		content = m.calendar.View()
	case StateActivities:
		content = docStyle.Render(m.activities.View())
	case StateFixed:
		content = docStyle.Render(m.fixed.View())
	case StateReport:
		content = docStyle.Render(m.viewReport())
	case StateAddActivity, StateAddFixed:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= tabCount {
		active = m.previousState
	}
	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	if m.validationWarning != "" {
		tabs = append(tabs, warningStyle.Render("  "+m.validationWarning))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render(errors.Format(m.err))
	}
	return messageStyle.Render(m.message)
}

func (m Model) viewReport() string {
	if m.report == nil {
		return "No solve yet in this session. Press 'g' to generate."
	}
	return m.report.String()
}

func (m Model) viewConfirmDelete() string {
	name := ""
	if m.pendingDelete != nil {
		name = m.pendingDelete.Name
	}
	return lipgloss.Place(m.width, max(0, m.height-chromeHeight),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete "+name+"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
