package scheduler

import (
	"fmt"
	"strings"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/errors"
	"github.com/julianstephens/weekgrid/internal/models"
)

// Edit describes a manual change to the block covering one slot of a
// generated schedule.
type Edit struct {
	Day     constants.Day
	Slot    int
	Action  string
	NewName string // rename only
}

// BlockAt returns the slot range [start, end) of the block covering slot.
// A block is a run of slots with the same name that starts at a first slot.
func BlockAt(ws models.WeekSchedule, day constants.Day, slot int) (int, int, bool) {
	occ, ok := ws.Get(day, slot)
	if !ok {
		return 0, 0, false
	}

	start := slot
	for !isFirst(ws, day, start, occ.Name) {
		prev, ok := ws.Get(day, start-1)
		if !ok || prev.Name != occ.Name {
			break
		}
		start--
	}

	end := slot + 1
	for {
		next, ok := ws.Get(day, end)
		if !ok || next.Name != occ.Name || next.IsFirstSlot {
			break
		}
		end++
	}
	return start, end, true
}

func isFirst(ws models.WeekSchedule, day constants.Day, slot int, name string) bool {
	occ, ok := ws.Get(day, slot)
	return ok && occ.Name == name && occ.IsFirstSlot
}

// ApplyEdit returns a copy of ws with e applied to the whole block covering
// e.Slot. Removing a fixed block fails with errors.ErrFixedSlot; editing an
// empty slot fails with errors.ErrEmptySlot.
func ApplyEdit(ws models.WeekSchedule, e Edit) (models.WeekSchedule, error) {
	if !e.Day.Valid() {
		return nil, fmt.Errorf("invalid day %q", e.Day)
	}

	start, end, ok := BlockAt(ws, e.Day, e.Slot)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", e.Day, TimeFromIndex(e.Slot), errors.ErrEmptySlot)
	}

	out := ws.Clone()
	head, _ := out.Get(e.Day, start)

	switch e.Action {
	case constants.EditLock, constants.EditUnlock:
		for s := start; s < end; s++ {
			occ, _ := out.Get(e.Day, s)
			occ.IsLocked = e.Action == constants.EditLock
		}
	case constants.EditRemove:
		if head.IsFixed {
			return nil, fmt.Errorf("remove %q: %w", head.Name, errors.ErrFixedSlot)
		}
		for s := start; s < end; s++ {
			out.Delete(e.Day, s)
		}
	case constants.EditRename:
		name := strings.TrimSpace(e.NewName)
		if name == "" {
			return nil, fmt.Errorf("new name cannot be empty")
		}
		for s := start; s < end; s++ {
			occ, _ := out.Get(e.Day, s)
			occ.Name = name
		}
	default:
		return nil, fmt.Errorf("unknown edit action %q (expected lock, unlock, remove or rename)", e.Action)
	}
	return out, nil
}
