package scheduler

import (
	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
)

// task is an activity with its constraints resolved to slot indices.
type task struct {
	name     string
	category string
	priority int
	length   int
	fixed    bool
	locked   bool

	earliest    int
	hasEarliest bool
	latest      int
	hasLatest   bool

	// after holds only the predecessors that name a known activity.
	after []string
}

type slotRange struct{ start, end int }

// Evaluator decides whether a candidate placement is acceptable. It is built
// once per solve and is read-only afterwards.
type Evaluator struct {
	c        models.Constraints
	dayOff   int
	blocked  []slotRange
	gap      int
	maxTasks *int
	catCaps  map[string]float64
	known    map[string]struct{}
}

// NewEvaluator prepares the constraints for repeated checks. known lists the
// activity names that `after` references may resolve to.
func NewEvaluator(c models.Constraints, known []string) *Evaluator {
	e := &Evaluator{
		c:        c,
		dayOff:   -1,
		maxTasks: c.MaxTasksPerDay,
		catCaps:  c.MaxHoursPerCategoryPerDay,
		known:    make(map[string]struct{}, len(known)),
	}
	if day, ok := c.DayOff(); ok {
		e.dayOff = day.Index()
	}
	for _, r := range c.NoActivityBlocks {
		e.blocked = append(e.blocked, slotRange{SlotIndex(r.Start), SlotIndex(r.End)})
	}
	// A configured gap is at least one slot, even when set to zero.
	if c.MinGapMinutes != nil {
		e.gap = max(1, (*c.MinGapMinutes+constants.SlotMinutes-1)/constants.SlotMinutes)
	}
	for _, name := range known {
		e.known[name] = struct{}{}
	}
	return e
}

func (e *Evaluator) prepare(a models.Activity) task {
	t := task{
		name:     a.Name,
		category: a.Category,
		priority: a.Priority,
		length:   DurationSlots(a.Duration),
		fixed:    a.IsFixed,
		locked:   a.IsLocked,
	}
	if s := e.c.EarliestFor(a); s != "" {
		t.earliest, t.hasEarliest = SlotIndex(s), true
	}
	if s := e.c.LatestFor(a); s != "" {
		t.latest, t.hasLatest = SlotIndex(s), true
	}
	for _, name := range a.After {
		if _, ok := e.known[name]; ok {
			t.after = append(t.after, name)
		}
	}
	return t
}

// IsValid reports whether a may start at slot start on the given day.
func (e *Evaluator) IsValid(s *Schedule, day constants.Day, start int, a models.Activity) bool {
	di := day.Index()
	if di < 0 {
		return false
	}
	return e.valid(s, di, start, e.prepare(a))
}

func (e *Evaluator) valid(s *Schedule, day, start int, t task) bool {
	end := start + t.length

	if start < 0 || end > constants.SlotsPerDay {
		return false
	}

	if day == e.dayOff && !t.fixed {
		return false
	}

	for i := start; i < end; i++ {
		if s.Occupied(day, i) {
			return false
		}
	}

	// Fixed activities are not exempt here.
	for _, r := range e.blocked {
		if start < r.end && end > r.start {
			return false
		}
	}

	// gap slots must be free on both sides: [start-gap, start) and [end, end+gap).
	if e.gap > 0 {
		for i := 1; i <= e.gap; i++ {
			if s.Occupied(day, start-i) || s.Occupied(day, end+i-1) {
				return false
			}
		}
	}

	if e.maxTasks != nil || len(e.catCaps) > 0 {
		count, hours := s.DayStats(day)
		if e.maxTasks != nil {
			if !s.hasNonFixed(day, t.name) {
				count++
			}
			if count > *e.maxTasks {
				return false
			}
		}
		if limit, ok := e.catCaps[t.category]; ok && t.category != "" {
			added := float64(t.length*constants.SlotMinutes) / 60
			if hours[t.category]+added > limit {
				return false
			}
		}
	}

	if t.hasEarliest && start < t.earliest {
		return false
	}
	if t.hasLatest && end > t.latest {
		return false
	}

	// Same-day only.
	for _, name := range t.after {
		if !s.endsBefore(day, name, start) {
			return false
		}
	}

	return true
}
