package constants

import (
	"fmt"
	"strings"
)

// Day identifies one column of the weekly grid.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
)

// DaysPerWeek is the number of columns in the grid. There is no weekend.
const DaysPerWeek = 5

// Days is the canonical day order. The search walks days in this order.
var Days = [DaysPerWeek]Day{Monday, Tuesday, Wednesday, Thursday, Friday}

const (
	GridStartHour = 6
	GridEndHour   = 24
	SlotMinutes   = 30
	SlotsPerDay   = (GridEndHour - GridStartHour) * 60 / SlotMinutes
	SlotHours     = float64(SlotMinutes) / 60

	// InvalidSlot is returned for time strings that cannot be parsed. It sits
	// far below any valid index so it never matches a placement.
	InvalidSlot = -100
)

// Solve outcomes
const (
	StatusNoActivities   = "NO_ACTIVITIES"
	StatusSuccess        = "SUCCESS"
	StatusFailure        = "FAILURE"
	StatusBudgetExceeded = "BUDGET_EXCEEDED"
)

// Edit actions on a generated slot
const (
	EditLock   = "lock"
	EditUnlock = "unlock"
	EditRemove = "remove"
	EditRename = "rename"
)

// Conflict types reported by validation
type ConflictType string

const (
	ConflictDuplicateActivityName ConflictType = "duplicate_activity_name"
	ConflictInvalidTime           ConflictType = "invalid_time"
	ConflictInvalidDay            ConflictType = "invalid_day"
	ConflictOverlappingFixed      ConflictType = "overlapping_fixed_blocks"
	ConflictOutsideGrid           ConflictType = "outside_grid"
	ConflictUnknownPredecessor    ConflictType = "unknown_predecessor"
	ConflictInvalidDuration       ConflictType = "invalid_duration"
)

var dayAliases = map[string]Day{
	"mon":       Monday,
	"monday":    Monday,
	"tue":       Tuesday,
	"tues":      Tuesday,
	"tuesday":   Tuesday,
	"wed":       Wednesday,
	"wednesday": Wednesday,
	"thu":       Thursday,
	"thur":      Thursday,
	"thursday":  Thursday,
	"fri":       Friday,
	"friday":    Friday,
}

// ParseDay resolves a day name or common abbreviation, case-insensitively.
func ParseDay(s string) (Day, error) {
	if d, ok := dayAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("invalid day: %q (expected Monday-Friday)", s)
}

// Index returns the position of d in Days, or -1 for an unknown day.
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the canonical days.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Short returns the three-letter form used in compact views.
func (d Day) Short() string {
	if len(d) < 3 {
		return string(d)
	}
	return string(d[:3])
}
