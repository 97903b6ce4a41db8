package calendar

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/render"
)

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")).
	Italic(true)

// Model shows the weekly grid and the hour totals in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	schedule models.WeekSchedule
	status   string
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.schedule.IsEmpty() {
		return "No schedule yet. Press 'g' to generate."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetSchedule replaces the displayed schedule. status is shown above the grid
// and may be empty.
func (m *Model) SetSchedule(ws models.WeekSchedule, status string) {
	m.schedule = ws
	m.status = status
	m.Render()
}

func (m *Model) Render() {
	if m.schedule.IsEmpty() {
		m.viewport.SetContent("")
		return
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n\n")
	}
	b.WriteString(render.Calendar(m.schedule))
	b.WriteString("\n\n")
	b.WriteString(render.TotalsTable(m.schedule))
	m.viewport.SetContent(b.String())
}
