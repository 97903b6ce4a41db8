package models

import (
	"encoding/json"
	"maps"
	"strconv"

	"github.com/julianstephens/weekgrid/internal/constants"
)

// Occupant is the persisted record of one occupied slot.
type Occupant struct {
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	Priority      int    `json:"priority,omitempty"`
	DurationSlots int    `json:"duration_slots,omitempty"`
	IsFirstSlot   bool   `json:"is_first_slot"`
	IsFixed       bool   `json:"is_fixed,omitempty"`
	IsLocked      bool   `json:"is_locked,omitempty"`
}

// DaySlots maps a slot index, written as a decimal string, to its occupant.
type DaySlots map[string]*Occupant

// WeekSchedule is the persisted form of a schedule: day -> slot -> occupant.
type WeekSchedule map[constants.Day]DaySlots

// NewWeekSchedule returns a schedule with an empty entry for every day.
func NewWeekSchedule() WeekSchedule {
	ws := make(WeekSchedule, len(constants.Days))
	for _, day := range constants.Days {
		ws[day] = DaySlots{}
	}
	return ws
}

// Clone returns a deep copy. Occupants are copied so edits on the clone do
// not leak back into the original.
func (ws WeekSchedule) Clone() WeekSchedule {
	out := make(WeekSchedule, len(ws))
	for day, slots := range ws {
		cp := make(DaySlots, len(slots))
		for key, occ := range slots {
			if occ == nil {
				continue
			}
			o := *occ
			cp[key] = &o
		}
		out[day] = cp
	}
	return out
}

// Normalized returns a copy holding every canonical day, with unknown days,
// non-numeric slot keys and empty occupants dropped.
func (ws WeekSchedule) Normalized() WeekSchedule {
	out := NewWeekSchedule()
	for _, day := range constants.Days {
		for key, occ := range ws[day] {
			if occ == nil || !isDigits(key) {
				continue
			}
			o := *occ
			out[day][key] = &o
		}
	}
	return out
}

// Get returns the occupant at the given day and slot, if any.
func (ws WeekSchedule) Get(day constants.Day, slot int) (*Occupant, bool) {
	occ, ok := ws[day][strconv.Itoa(slot)]
	return occ, ok && occ != nil
}

// Set stores an occupant, creating the day entry when needed.
func (ws WeekSchedule) Set(day constants.Day, slot int, occ *Occupant) {
	if ws[day] == nil {
		ws[day] = DaySlots{}
	}
	ws[day][strconv.Itoa(slot)] = occ
}

// Delete removes the occupant at the given day and slot.
func (ws WeekSchedule) Delete(day constants.Day, slot int) {
	delete(ws[day], strconv.Itoa(slot))
}

// IsEmpty reports whether no day holds any occupant.
func (ws WeekSchedule) IsEmpty() bool {
	for _, slots := range ws {
		if len(slots) > 0 {
			return false
		}
	}
	return true
}

// Merge overlays other onto a copy of ws; entries of other win on the same
// day and slot.
func (ws WeekSchedule) Merge(other WeekSchedule) WeekSchedule {
	out := ws.Clone()
	for day, slots := range other {
		if out[day] == nil {
			out[day] = DaySlots{}
		}
		maps.Copy(out[day], slots)
	}
	return out
}

// UnmarshalJSON accepts either a day-keyed mapping of slot records or a flat
// list of {day, slot, activity} entries. Anything it does not recognise is
// dropped rather than rejected.
func (ws *WeekSchedule) UnmarshalJSON(data []byte) error {
	out := NewWeekSchedule()

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(data, &nested); err == nil {
		for _, day := range constants.Days {
			var slots map[string]json.RawMessage
			if err := json.Unmarshal(nested[string(day)], &slots); err != nil {
				continue
			}
			for key, raw := range slots {
				if !isDigits(key) {
					continue
				}
				if occ := decodeOccupant(raw); occ != nil {
					out[day][key] = occ
				}
			}
		}
		*ws = out
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err == nil {
		for _, raw := range entries {
			decodeFlatEntry(out, raw)
		}
	}
	*ws = out
	return nil
}

func decodeFlatEntry(out WeekSchedule, raw json.RawMessage) {
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return
	}

	var day constants.Day
	if err := json.Unmarshal(entry["day"], &day); err != nil {
		return
	}
	if _, ok := out[day]; !ok {
		return
	}

	slot, ok := decodeSlot(entry["slot"])
	if !ok {
		return
	}

	body := raw
	if act, ok := entry["activity"]; ok && string(act) != "null" {
		body = act
	} else if act, ok := entry["act"]; ok && string(act) != "null" {
		body = act
	}
	if occ := decodeOccupant(body); occ != nil {
		out[day][strconv.Itoa(slot)] = occ
	}
}

func decodeSlot(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			return v, true
		}
	}
	return 0, false
}

func decodeOccupant(raw json.RawMessage) *Occupant {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var occ Occupant
	if err := json.Unmarshal(raw, &occ); err != nil {
		return nil
	}
	return &occ
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
