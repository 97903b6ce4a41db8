package models

import (
	"fmt"
	"slices"

	"github.com/julianstephens/weekgrid/internal/constants"
)

// Activity is a flexible task that the search places somewhere in the week.
type Activity struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name" validate:"required"`
	Duration      float64  `json:"duration" validate:"gt=0,lte=18"` // hours, fractional allowed
	Priority      int      `json:"priority" validate:"gte=0"`
	Category      string   `json:"category,omitempty"`
	EarliestStart string   `json:"earliest_start,omitempty" validate:"omitempty,clock"` // HH:MM format
	LatestEnd     string   `json:"latest_end,omitempty" validate:"omitempty,clock"`     // HH:MM format
	After         []string `json:"after,omitempty"`
	IsFixed       bool     `json:"is_fixed,omitempty"`
	IsLocked      bool     `json:"is_locked,omitempty"`
}

// FixedBlock is an immovable commitment such as a lecture.
type FixedBlock struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name" validate:"required"`
	Day       constants.Day `json:"day" validate:"required,weekday"`
	StartTime string        `json:"start_time" validate:"required,clock"` // HH:MM format
	EndTime   string        `json:"end_time" validate:"required,clock"`   // HH:MM format
	Category  string        `json:"category,omitempty"`
	IsLocked  bool          `json:"is_locked,omitempty"`
}

// DisplayName returns the block name, falling back to a placeholder for
// records that were stored without one.
func (f FixedBlock) DisplayName() string {
	if f.Name == "" {
		return "FIXED"
	}
	return f.Name
}

// Instances expands a to n copies for activities that happen several times a
// week. Copies are named "<name> 1" to "<name> n" so each stays addressable by
// name; n <= 1 returns a unchanged.
func (a Activity) Instances(n int) []Activity {
	if n <= 1 {
		return []Activity{a}
	}
	out := make([]Activity, 0, n)
	for i := 1; i <= n; i++ {
		cp := a
		cp.ID = ""
		cp.Name = fmt.Sprintf("%s %d", a.Name, i)
		cp.After = slices.Clone(a.After)
		out = append(out, cp)
	}
	return out
}
