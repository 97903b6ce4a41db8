package scheduler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/weekgrid/internal/constants"
)

const gridStartMinutes = constants.GridStartHour * 60

// SlotIndex converts "H:MM" or "HH:MM" into a slot index relative to the grid
// start. Times before the grid start give negative indices and "24:00" gives
// SlotsPerDay. Anything unparseable gives constants.InvalidSlot.
func SlotIndex(hhmm string) int {
	minutes, ok := parseClock(hhmm)
	if !ok {
		return constants.InvalidSlot
	}
	return floorDiv(minutes-gridStartMinutes, constants.SlotMinutes)
}

// TimeFromIndex is the inverse of SlotIndex. Hours wrap modulo 24, so index
// SlotsPerDay renders as "00:00" and out-of-grid indices still produce a
// clock string.
func TimeFromIndex(i int) string {
	total := gridStartMinutes + i*constants.SlotMinutes
	total = ((total % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// TimeSlots returns the start label of every slot in the grid.
func TimeSlots() []string {
	out := make([]string, constants.SlotsPerDay)
	for i := range out {
		out[i] = TimeFromIndex(i)
	}
	return out
}

// DurationSlots converts hours into whole slots, rounding down, never below one.
// Durations longer than a day, infinite or NaN give SlotsPerDay+1, which never fits.
func DurationSlots(hours float64) int {
	minutes := hours * 60
	if !(minutes < float64((constants.SlotsPerDay+1)*constants.SlotMinutes)) {
		return constants.SlotsPerDay + 1
	}
	if minutes < constants.SlotMinutes {
		return 1
	}
	return int(minutes) / constants.SlotMinutes
}

// parseClock reads a wall-clock time into minutes after midnight. "24:00" is
// accepted as the end of the day.
func parseClock(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || hh == "" || mm == "" || len(mm) > 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if h == 24 && m != 0 {
		return 0, false
	}
	return h*60 + m, true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
