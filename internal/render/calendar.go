// Package render draws schedules for the terminal.
package render

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/scheduler"
)

const (
	lockMarker     = " 🔒"
	halfHourMarker = " (30 min)"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Padding(0, 1)
	timeStyle      = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	fixedStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	generatedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Calendar renders ws as an hour-by-hour table, one column per day. A block
// is named in the row of its first slot; blocks starting on the half hour
// carry a "(30 min)" marker.
func Calendar(ws models.WeekSchedule) string {
	headers := []string{"Time"}
	for _, day := range constants.Days {
		headers = append(headers, string(day))
	}

	var rows [][]string
	for slot := 0; slot < constants.SlotsPerDay; slot += 2 {
		row := []string{scheduler.TimeFromIndex(slot)}
		for _, day := range constants.Days {
			row = append(row, cell(ws, day, slot))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return timeStyle
			default:
				return cellStyle
			}
		})

	title := fmt.Sprintf("Weekly schedule (%s - %s)", scheduler.TimeFromIndex(0), scheduler.TimeFromIndex(constants.SlotsPerDay))
	return titleStyle.Render(title) + "\n" + t.Render()
}

func cell(ws models.WeekSchedule, day constants.Day, slot int) string {
	if occ, ok := ws.Get(day, slot); ok && occ.IsFirstSlot {
		return label(occ)
	}
	if occ, ok := ws.Get(day, slot+1); ok && occ.IsFirstSlot {
		return label(occ) + halfHourMarker
	}
	return ""
}

func label(occ *models.Occupant) string {
	style := generatedStyle
	if occ.IsFixed {
		style = fixedStyle
	}
	text := occ.Name
	if occ.IsLocked {
		text += lockMarker
	}
	return style.Render(text)
}

// Total is the time one activity occupies across the week.
type Total struct {
	Name  string
	Hours float64
}

// Totals sums occupied slots per name, largest first, then by name.
func Totals(ws models.WeekSchedule) []Total {
	hours := make(map[string]float64)
	for _, day := range constants.Days {
		for _, occ := range ws[day] {
			if occ != nil {
				hours[occ.Name] += constants.SlotHours
			}
		}
	}

	out := make([]Total, 0, len(hours))
	for name, h := range hours {
		out = append(out, Total{Name: name, Hours: h})
	}
	slices.SortFunc(out, func(a, b Total) int {
		if c := cmp.Compare(b.Hours, a.Hours); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// TotalsTable renders Totals as a two-column table.
func TotalsTable(ws models.WeekSchedule) string {
	totals := Totals(ws)
	if len(totals) == 0 {
		return "No scheduled time."
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Activity", "Hours").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, total := range totals {
		t.Row(total.Name, fmt.Sprintf("%.1f", total.Hours))
	}
	return t.Render()
}
