package itemlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekgrid/internal/models"
)

// Kind says which collection a list shows.
type Kind int

const (
	KindActivities Kind = iota
	KindFixed
)

type AddMsg struct {
	Kind Kind
}

type DeleteMsg struct {
	Kind Kind
	Ref  string
	Name string
}

type Item struct {
	ID    string
	Name  string
	Desc  string
	Fixed bool
}

func (i Item) Title() string       { return i.Name }
func (i Item) Description() string { return i.Desc }
func (i Item) FilterValue() string { return i.Name }

func ActivityItem(a models.Activity) Item {
	desc := fmt.Sprintf("%gh | priority %d", a.Duration, a.Priority)
	if a.Category != "" {
		desc += " | " + a.Category
	}
	if a.EarliestStart != "" || a.LatestEnd != "" {
		desc += fmt.Sprintf(" | %s-%s", orDash(a.EarliestStart), orDash(a.LatestEnd))
	}
	if len(a.After) > 0 {
		desc += " | after " + strings.Join(a.After, ", ")
	}
	return Item{ID: a.ID, Name: a.Name, Desc: desc}
}

func FixedItem(fb models.FixedBlock) Item {
	desc := fmt.Sprintf("%s %s-%s", fb.Day, fb.StartTime, fb.EndTime)
	if fb.Category != "" {
		desc += " | " + fb.Category
	}
	return Item{ID: fb.ID, Name: fb.DisplayName(), Desc: desc, Fixed: true}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	kind Kind
	list list.Model
	keys KeyMap
}

func New(kind Kind, items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete}
	}

	return Model{kind: kind, list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			kind := m.kind
			return m, func() tea.Msg { return AddMsg{Kind: kind} }
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				ref := i.ID
				if ref == "" {
					ref = i.Name
				}
				kind := m.kind
				return m, func() tea.Msg { return DeleteMsg{Kind: kind, Ref: ref, Name: i.Name} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Nothing here yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
