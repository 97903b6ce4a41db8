// Package validation reports problems in a weekgrid document that would make
// a solve misbehave or silently drop records.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/scheduler"
)

type Conflict struct {
	Type        constants.ConflictType
	Description string
	Day         constants.Day
	Items       []string
	IDs         []string
}

type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// FormatReport returns a human-readable report of all conflicts.
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks documents and CLI input. Struct tags on the models are
// enforced through go-playground/validator.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return isValidTime(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return constants.Day(fl.Field().String()).Valid()
	})
	return &Validator{v: v}
}

// Struct validates a single value against its struct tags.
func (v *Validator) Struct(s any) error {
	if err := v.v.Struct(s); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

// ValidateDocument checks activities and fixed blocks.
func (v *Validator) ValidateDocument(doc models.Document) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	v.checkActivities(&result, doc.Activities)
	v.checkFixed(&result, doc.FixedSchedule)
	return result
}

func (v *Validator) checkActivities(result *ValidationResult, activities []models.Activity) {
	names := make(map[string][]string)
	var order []string
	for _, a := range activities {
		if a.Name == "" {
			continue
		}
		if _, seen := names[a.Name]; !seen {
			order = append(order, a.Name)
		}
		names[a.Name] = append(names[a.Name], a.ID)
	}
	for _, name := range order {
		if ids := names[name]; len(ids) > 1 {
			result.add(Conflict{
				Type:        constants.ConflictDuplicateActivityName,
				Description: fmt.Sprintf("Duplicate activity name: %q (%d entries)", name, len(ids)),
				Items:       []string{name},
				IDs:         ids,
			})
		}
	}

	for _, a := range activities {
		if a.Duration <= 0 || a.Duration > float64(constants.SlotsPerDay*constants.SlotMinutes)/60 {
			result.add(Conflict{
				Type:        constants.ConflictInvalidDuration,
				Description: fmt.Sprintf("Activity %q has duration %gh, which cannot fit in a day", a.Name, a.Duration),
				Items:       []string{a.Name},
				IDs:         []string{a.ID},
			})
		}
		for _, f := range []struct{ field, value string }{{"earliest_start", a.EarliestStart}, {"latest_end", a.LatestEnd}} {
			if f.value != "" && !isValidTime(f.value) {
				result.add(Conflict{
					Type:        constants.ConflictInvalidTime,
					Description: fmt.Sprintf("Activity %q has invalid %s time: %s", a.Name, f.field, f.value),
					Items:       []string{a.Name},
					IDs:         []string{a.ID},
				})
			}
		}
		for _, pred := range a.After {
			if _, ok := names[pred]; !ok {
				result.add(Conflict{
					Type:        constants.ConflictUnknownPredecessor,
					Description: fmt.Sprintf("Activity %q must follow %q, which does not exist and will be ignored", a.Name, pred),
					Items:       []string{a.Name, pred},
					IDs:         []string{a.ID},
				})
			}
		}
	}
}

type span struct {
	block      models.FixedBlock
	start, end int
}

func (v *Validator) checkFixed(result *ValidationResult, blocks []models.FixedBlock) {
	byDay := make(map[constants.Day][]span)

	for _, b := range blocks {
		if !b.Day.Valid() {
			result.add(Conflict{
				Type:        constants.ConflictInvalidDay,
				Description: fmt.Sprintf("Fixed block %q has invalid day %q and will be skipped", b.DisplayName(), b.Day),
				Items:       []string{b.DisplayName()},
				IDs:         []string{b.ID},
			})
			continue
		}

		badTime := false
		for _, f := range []struct{ field, value string }{{"start_time", b.StartTime}, {"end_time", b.EndTime}} {
			if !isValidTime(f.value) {
				badTime = true
				result.add(Conflict{
					Type:        constants.ConflictInvalidTime,
					Description: fmt.Sprintf("Fixed block %q on %s has invalid %s: %q", b.DisplayName(), b.Day, f.field, f.value),
					Day:         b.Day,
					Items:       []string{b.DisplayName()},
					IDs:         []string{b.ID},
				})
			}
		}
		if badTime {
			continue
		}

		start, end := scheduler.SlotIndex(b.StartTime), scheduler.SlotIndex(b.EndTime)
		if end <= start {
			result.add(Conflict{
				Type:        constants.ConflictInvalidTime,
				Description: fmt.Sprintf("Fixed block %q on %s ends at or before it starts (%s-%s)", b.DisplayName(), b.Day, b.StartTime, b.EndTime),
				Day:         b.Day,
				Items:       []string{b.DisplayName()},
				IDs:         []string{b.ID},
			})
			continue
		}
		if start < 0 || end > constants.SlotsPerDay {
			result.add(Conflict{
				Type: constants.ConflictOutsideGrid,
				Description: fmt.Sprintf("Fixed block %q on %s (%s-%s) extends outside %s-%s and will be clipped",
					b.DisplayName(), b.Day, b.StartTime, b.EndTime,
					scheduler.TimeFromIndex(0), scheduler.TimeFromIndex(constants.SlotsPerDay)),
				Day:   b.Day,
				Items: []string{b.DisplayName()},
				IDs:   []string{b.ID},
			})
		}
		byDay[b.Day] = append(byDay[b.Day], span{block: b, start: start, end: end})
	}

	for _, day := range constants.Days {
		spans := byDay[day]
		for i := range spans {
			for j := i + 1; j < len(spans); j++ {
				a, b := spans[i], spans[j]
				if a.start < b.end && b.start < a.end {
					result.add(Conflict{
						Type: constants.ConflictOverlappingFixed,
						Description: fmt.Sprintf("Fixed blocks %q (%s-%s) and %q (%s-%s) overlap on %s",
							a.block.DisplayName(), a.block.StartTime, a.block.EndTime,
							b.block.DisplayName(), b.block.StartTime, b.block.EndTime, day),
						Day:   day,
						Items: []string{a.block.DisplayName(), b.block.DisplayName()},
						IDs:   []string{a.block.ID, b.block.ID},
					})
				}
			}
		}
	}
}

// ValidateConstraints checks the time strings and day names a constraints
// document refers to.
func (v *Validator) ValidateConstraints(c models.Constraints) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if c.MandatoryDayOff != "" {
		if _, err := constants.ParseDay(c.MandatoryDayOff); err != nil {
			result.add(Conflict{
				Type:        constants.ConflictInvalidDay,
				Description: fmt.Sprintf("Mandatory day off %q is not a weekday and will be ignored", c.MandatoryDayOff),
				Items:       []string{c.MandatoryDayOff},
			})
		}
	}

	for _, r := range c.NoActivityBlocks {
		if !isValidTime(r.Start) || !isValidTime(r.End) || scheduler.SlotIndex(r.End) <= scheduler.SlotIndex(r.Start) {
			result.add(Conflict{
				Type:        constants.ConflictInvalidTime,
				Description: fmt.Sprintf("No-activity block %s-%s is not a valid range and will be ignored", r.Start, r.End),
				Items:       []string{r.Start, r.End},
			})
		}
	}

	windows := map[string]string{"task_earliest_start": c.TaskEarliestStart, "task_latest_end": c.TaskLatestEnd}
	for name, o := range c.Tasks {
		windows[name+" earliest_start"] = o.EarliestStart
		windows[name+" latest_end"] = o.LatestEnd
	}
	keys := make([]string, 0, len(windows))
	for k := range windows {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if value := windows[k]; value != "" && !isValidTime(value) {
			result.add(Conflict{
				Type:        constants.ConflictInvalidTime,
				Description: fmt.Sprintf("Constraint %s has invalid time %q", k, value),
				Items:       []string{k},
			})
		}
	}
	return result
}

func isValidTime(s string) bool {
	return scheduler.SlotIndex(s) != constants.InvalidSlot
}
