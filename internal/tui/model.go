// Package tui is the interactive weekgrid viewer.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekgrid/internal/prompt"
	"github.com/julianstephens/weekgrid/internal/report"
	"github.com/julianstephens/weekgrid/internal/scheduler"
	"github.com/julianstephens/weekgrid/internal/storage"
	"github.com/julianstephens/weekgrid/internal/tui/components/calendar"
	"github.com/julianstephens/weekgrid/internal/tui/components/itemlist"
	"github.com/julianstephens/weekgrid/internal/validation"
)

type SessionState int

const (
	StateSchedule SessionState = iota
	StateActivities
	StateFixed
	StateReport
	StateAddActivity
	StateAddFixed
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab.
const tabCount = 4

var tabTitles = [tabCount]string{"Schedule", "Activities", "Fixed", "Report"}

type Options struct {
	Timeout       time.Duration
	BeforePersist func()
}

type Model struct {
	store     storage.Provider
	scheduler *scheduler.Scheduler
	opts      Options

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	calendar   calendar.Model
	activities itemlist.Model
	fixed      itemlist.Model
	report     *report.Report

	form          *huh.Form
	activityForm  *prompt.ActivityForm
	fixedForm     *prompt.FixedBlockForm
	pendingDelete *itemlist.DeleteMsg

	message           string
	err               error
	validationWarning string
	generating        bool
	quitting          bool
	width             int
	height            int
}

func NewModel(store storage.Provider, sched *scheduler.Scheduler, opts Options) Model {
	m := Model{
		store:      store,
		scheduler:  sched,
		opts:       opts,
		state:      StateSchedule,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		calendar:   calendar.New(0, 0),
		activities: itemlist.New(itemlist.KindActivities, nil, 0, 0),
		fixed:      itemlist.New(itemlist.KindFixed, nil, 0, 0),
	}
	m.reload()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Generate}
	switch m.state {
	case StateActivities, StateFixed:
		keys = append(keys, m.keys.Add, m.keys.Delete)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	actions := []key.Binding{m.keys.Generate}
	switch m.state {
	case StateActivities, StateFixed:
		actions = append(actions, m.keys.Add, m.keys.Delete)
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload refreshes every view from the store.
func (m *Model) reload() {
	doc, err := m.store.GetDocument()
	if err != nil {
		m.err = err
		return
	}

	acts := make([]itemlist.Item, 0, len(doc.Activities))
	for _, a := range doc.Activities {
		acts = append(acts, itemlist.ActivityItem(a))
	}
	m.activities.SetItems(acts)

	fixed := make([]itemlist.Item, 0, len(doc.FixedSchedule))
	for _, fb := range doc.FixedSchedule {
		fixed = append(fixed, itemlist.FixedItem(fb))
	}
	m.fixed.SetItems(fixed)

	m.calendar.SetSchedule(doc.GeneratedSchedule, "")

	result := validation.New().ValidateDocument(doc)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
