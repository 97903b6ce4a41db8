package scheduler

import (
	"slices"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
)

// Block is one occupied range of a day: Length slots starting at Start.
type Block struct {
	Name     string
	Category string
	Priority int
	Start    int
	Length   int
	Fixed    bool
	Locked   bool

	// records holds the per-slot occupants a locked block was built from.
	// They are emitted verbatim.
	records []*models.Occupant
}

// End returns the first slot after the block.
func (b Block) End() int { return b.Start + b.Length }

// Hours returns the block length in hours.
func (b Block) Hours() float64 {
	return float64(b.Length*constants.SlotMinutes) / 60
}

type daySchedule struct {
	// cells[i] is the index+1 into blocks of the block owning slot i; 0 is free.
	cells  [constants.SlotsPerDay]int
	blocks []Block
}

// Schedule is the working state of a solve. The zero value is an empty week.
// Clone is cheap and never shares mutable state with the original, so every
// branch of the search can own its copy.
type Schedule struct {
	days [constants.DaysPerWeek]daySchedule
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// Clone returns an independent copy.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{days: s.days}
	for i := range out.days {
		out.days[i].blocks = slices.Clone(s.days[i].blocks)
	}
	return out
}

// Place claims the block's slots on the given day, clipped to the grid.
// Slots already owned by another block are taken over.
func (s *Schedule) Place(day int, b Block) {
	d := &s.days[day]
	d.blocks = append(d.blocks, b)
	ref := len(d.blocks)
	for i := max(0, b.Start); i < min(constants.SlotsPerDay, b.End()); i++ {
		d.cells[i] = ref
	}
}

// Occupied reports whether the slot holds anything. Out-of-grid slots are free.
func (s *Schedule) Occupied(day, slot int) bool {
	if slot < 0 || slot >= constants.SlotsPerDay {
		return false
	}
	return s.days[day].cells[slot] != 0
}

// At returns the block owning the slot.
func (s *Schedule) At(day, slot int) (Block, bool) {
	if slot < 0 || slot >= constants.SlotsPerDay {
		return Block{}, false
	}
	ref := s.days[day].cells[slot]
	if ref == 0 {
		return Block{}, false
	}
	return s.days[day].blocks[ref-1], true
}

// Blocks returns the blocks of a day that still own at least one slot, in
// slot order.
func (s *Schedule) Blocks(day int) []Block {
	d := &s.days[day]
	var out []Block
	seen := make([]bool, len(d.blocks)+1)
	for _, ref := range d.cells {
		if ref == 0 || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, d.blocks[ref-1])
	}
	return out
}

// Contains reports whether any day holds a slot with the given name.
func (s *Schedule) Contains(name string) bool {
	for day := range s.days {
		d := &s.days[day]
		for _, ref := range d.cells {
			if ref != 0 && d.blocks[ref-1].Name == name {
				return true
			}
		}
	}
	return false
}

// DayStats returns the number of distinct non-fixed activity names on a day
// and the hours committed per category by non-fixed blocks. Each block is
// counted once.
func (s *Schedule) DayStats(day int) (int, map[string]float64) {
	names := make(map[string]struct{})
	hours := make(map[string]float64)
	for _, b := range s.Blocks(day) {
		if b.Fixed {
			continue
		}
		if b.Name != "" {
			names[b.Name] = struct{}{}
		}
		if b.Category != "" {
			hours[b.Category] += b.Hours()
		}
	}
	return len(names), hours
}

// hasNonFixed reports whether a non-fixed block with the name sits on the day.
func (s *Schedule) hasNonFixed(day int, name string) bool {
	for _, b := range s.Blocks(day) {
		if !b.Fixed && b.Name == name {
			return true
		}
	}
	return false
}

// endsBefore reports whether a contiguous run of slots named name ends at or
// before slot on the given day. Adjacent blocks with the same name form one run.
func (s *Schedule) endsBefore(day int, name string, slot int) bool {
	d := &s.days[day]
	inRun := false
	for i := 0; i < constants.SlotsPerDay; i++ {
		ref := d.cells[i]
		match := ref != 0 && d.blocks[ref-1].Name == name
		if inRun && !match {
			return i <= slot
		}
		inRun = match
	}
	return false
}

// WeekSchedule renders the schedule in its persisted form. Locked blocks
// emit their original records; other blocks get fresh occupants with
// is_first_slot set on their first owned slot.
func (s *Schedule) WeekSchedule() models.WeekSchedule {
	out := models.NewWeekSchedule()
	for di, day := range constants.Days {
		d := &s.days[di]
		for slot, ref := range d.cells {
			if ref == 0 {
				continue
			}
			out.Set(day, slot, d.blocks[ref-1].occupant(slot))
		}
	}
	return out
}

func (b Block) occupant(slot int) *models.Occupant {
	if b.Locked && len(b.records) > 0 {
		off := slot - b.Start
		if off >= 0 && off < len(b.records) && b.records[off] != nil {
			rec := *b.records[off]
			rec.IsLocked = true
			return &rec
		}
	}
	occ := &models.Occupant{
		Name:          b.Name,
		Category:      b.Category,
		DurationSlots: b.Length,
		IsFirstSlot:   slot == max(0, b.Start),
		IsFixed:       b.Fixed,
		IsLocked:      b.Locked,
	}
	if !b.Fixed {
		occ.Priority = b.Priority
	}
	return occ
}
