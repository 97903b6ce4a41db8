package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekgrid/internal/generate"
	"github.com/julianstephens/weekgrid/internal/prompt"
	"github.com/julianstephens/weekgrid/internal/report"
	"github.com/julianstephens/weekgrid/internal/tui/components/itemlist"
)

type generatedMsg struct {
	outcome generate.Outcome
	err     error
}

// chromeHeight is the space taken by the tab bar, status line and help.
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := max(0, msg.Height-chromeHeight)
		m.calendar.SetSize(msg.Width, h)
		m.activities.SetSize(msg.Width, h)
		m.fixed.SetSize(msg.Width, h)
		return m, nil

	case generatedMsg:
		m.generating = false
		return m.handleGenerated(msg), nil

	case itemlist.AddMsg:
		return m.startAdd(msg.Kind)

	case itemlist.DeleteMsg:
		m.pendingDelete = &msg
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case StateAddActivity, StateAddFixed:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Generate):
			if m.generating {
				return m, nil
			}
			m.generating = true
			m.message = "Generating..."
			return m, m.generate()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateSchedule:
		m.calendar, cmd = m.calendar.Update(msg)
	case StateActivities:
		m.activities, cmd = m.activities.Update(msg)
	case StateFixed:
		m.fixed, cmd = m.fixed.Update(msg)
	}
	return m, cmd
}

func (m Model) generate() tea.Cmd {
	store, sched, opts := m.store, m.scheduler, m.opts
	return func() tea.Msg {
		out, err := generate.Run(context.Background(), store, sched, generate.Options{
			Timeout:       opts.Timeout,
			BeforePersist: opts.BeforePersist,
		})
		return generatedMsg{outcome: out, err: err}
	}
}

func (m Model) handleGenerated(msg generatedMsg) Model {
	if msg.err != nil {
		m.err = msg.err
		m.message = ""
		return m
	}

	res := msg.outcome.Result
	r := report.Build(res)
	m.report = &r
	m.err = nil

	if msg.outcome.Persisted {
		m.reload()
		m.message = fmt.Sprintf("Schedule saved: %d placed, %d skipped", len(res.Stats.Placed), len(res.Stats.Skipped))
		m.calendar.SetSchedule(res.Schedule, m.message)
	} else {
		m.message = "No schedule saved: " + res.Status
	}
	return m
}

func (m Model) startAdd(kind itemlist.Kind) (tea.Model, tea.Cmd) {
	m.previousState = m.state
	switch kind {
	case itemlist.KindFixed:
		m.fixedForm = prompt.NewFixedBlockFormModel()
		m.form = prompt.NewFixedBlockForm(m.fixedForm)
		m.state = StateAddFixed
	default:
		m.activityForm = prompt.NewActivityFormModel()
		m.form = prompt.NewActivityForm(m.activityForm)
		m.state = StateAddActivity
	}
	return m, m.form.Init()
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

	switch m.form.State {
	case huh.StateCompleted:
		m.err = m.saveForm()
		m.reload()
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) saveForm() error {
	switch m.state {
	case StateAddFixed:
		fb, err := m.fixedForm.FixedBlock()
		if err != nil {
			return err
		}
		if err := m.store.AddFixedBlock(fb); err != nil {
			return err
		}
		m.message = "Added fixed block: " + fb.Name
	case StateAddActivity:
		acts, err := m.activityForm.Activities()
		if err != nil {
			return err
		}
		names := make([]string, 0, len(acts))
		for _, a := range acts {
			if err := m.store.AddActivity(a); err != nil {
				return err
			}
			names = append(names, a.Name)
		}
		m.message = "Added: " + strings.Join(names, ", ")
	}
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		d := m.pendingDelete
		var err error
		if d.Kind == itemlist.KindFixed {
			err = m.store.DeleteFixedBlock(d.Ref)
		} else {
			err = m.store.DeleteActivity(d.Ref)
		}
		m.err = err
		if err == nil {
			m.message = "Deleted: " + d.Name
		}
		m.reload()
		m.pendingDelete = nil
		m.state = m.previousState
	case key.Matches(keyMsg, m.keys.Cancel), key.Matches(keyMsg, m.keys.Quit):
		m.pendingDelete = nil
		m.state = m.previousState
	}
	return m, nil
}
