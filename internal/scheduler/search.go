package scheduler

import (
	"context"

	"github.com/julianstephens/weekgrid/internal/constants"
)

// ctxCheckInterval is how many nodes pass between context checks. The first
// node is always checked.
const ctxCheckInterval = 1024

type searcher struct {
	ctx       context.Context
	eval      *Evaluator
	tasks     []task
	allowSkip bool
	maxNodes  int64

	nodes   int64
	aborted bool
	skipped []string
}

// run explores placements depth-first. Days are tried in canonical order and
// slots earliest-first; the first complete assignment wins.
func (sr *searcher) run(s *Schedule, index int) (*Schedule, bool) {
	sr.nodes++
	if sr.maxNodes > 0 && sr.nodes > sr.maxNodes {
		sr.aborted = true
	}
	if (sr.nodes-1)%ctxCheckInterval == 0 && sr.ctx.Err() != nil {
		sr.aborted = true
	}
	if sr.aborted {
		return s, false
	}

	if index >= len(sr.tasks) {
		return s, true
	}

	t := sr.tasks[index]
	if t.locked && s.Contains(t.name) {
		return sr.run(s, index+1)
	}

	for day := range constants.DaysPerWeek {
		if day == sr.eval.dayOff && !t.fixed {
			continue
		}
		for start := 0; start <= constants.SlotsPerDay-t.length; start++ {
			if !sr.eval.valid(s, day, start, t) {
				continue
			}
			next := s.Clone()
			next.Place(day, Block{
				Name:     t.name,
				Category: t.category,
				Priority: t.priority,
				Start:    start,
				Length:   t.length,
			})
			skippedBefore := len(sr.skipped)
			if result, ok := sr.run(next, index+1); ok {
				return result, true
			}
			if sr.aborted {
				return s, false
			}
			sr.skipped = sr.skipped[:skippedBefore]
		}
	}

	if sr.allowSkip {
		sr.skipped = append(sr.skipped, t.name)
		return sr.run(s, index+1)
	}
	return s, false
}
