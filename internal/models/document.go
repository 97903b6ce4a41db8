package models

// Document is everything a solve reads, in the shape of the legacy data file.
type Document struct {
	FixedSchedule     []FixedBlock `json:"fixed_schedule"`
	Activities        []Activity   `json:"activities"`
	GeneratedSchedule WeekSchedule `json:"generated_schedule"`
	Constraints       *Constraints `json:"constraints,omitempty"`
}

// NewDocument returns an empty document with every collection initialised.
func NewDocument() Document {
	return Document{
		FixedSchedule:     []FixedBlock{},
		Activities:        []Activity{},
		GeneratedSchedule: NewWeekSchedule(),
	}
}

// Normalize fills in collections missing from a decoded document.
func (d *Document) Normalize() {
	if d.FixedSchedule == nil {
		d.FixedSchedule = []FixedBlock{}
	}
	if d.Activities == nil {
		d.Activities = []Activity{}
	}
	d.GeneratedSchedule = d.GeneratedSchedule.Normalized()
}

// ActivityByName returns the first activity with the given name.
func (d Document) ActivityByName(name string) (Activity, bool) {
	for _, a := range d.Activities {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}
