package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/weekgrid/internal/constants"
)

// Keys of the flat constraints document.
const (
	KeyMandatoryDayOff           = "global_mandatory_day_off"
	KeyNoActivityBlocks          = "global_no_activity_blocks"
	KeyMinGap                    = "global_min_gap"
	KeyMaxTasksPerDay            = "global_max_tasks_per_day"
	KeyMaxUniquePerDay           = "global_max_unique_activities_per_day"
	KeyMaxHoursPerCategoryPerDay = "global_max_hours_per_category_per_day"
	KeyTaskEarliestStart         = "task_earliest_start"
	KeyTaskLatestEnd             = "task_latest_end"
	KeyAllowSkipUnplaceable      = "allow_skip_unplaceable"
	KeyMaxTasksToSchedule        = "max_tasks_to_schedule"
	KeyMaxTasks                  = "max_tasks"
	KeyTasks                     = "tasks"
)

// TimeRange is a half-open [Start, End) window of wall-clock times.
type TimeRange struct {
	Start string `json:"start"` // HH:MM format
	End   string `json:"end"`   // HH:MM format
}

// MarshalJSON writes the range as a two-element array.
func (r TimeRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{r.Start, r.End})
}

// UnmarshalJSON accepts ["08:00","09:00"] or {"start":"08:00","end":"09:00"}.
func (r *TimeRange) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("time range needs exactly two times, got %d", len(pair))
		}
		r.Start, r.End = pair[0], pair[1]
		return nil
	}
	var obj struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid time range: %w", err)
	}
	r.Start, r.End = obj.Start, obj.End
	return nil
}

// TaskOverride holds per-activity settings keyed by activity name.
type TaskOverride struct {
	EarliestStart string `json:"earliest_start,omitempty"` // HH:MM format
	LatestEnd     string `json:"latest_end,omitempty"`     // HH:MM format
}

// Constraints configures a single solve. Nil pointers mean "not configured".
type Constraints struct {
	MandatoryDayOff           string                  `json:"global_mandatory_day_off,omitempty"`
	NoActivityBlocks          []TimeRange             `json:"global_no_activity_blocks,omitempty"`
	MinGapMinutes             *int                    `json:"global_min_gap,omitempty"`
	MaxTasksPerDay            *int                    `json:"global_max_tasks_per_day,omitempty"`
	MaxHoursPerCategoryPerDay map[string]float64      `json:"global_max_hours_per_category_per_day,omitempty"`
	TaskEarliestStart         string                  `json:"task_earliest_start,omitempty"`
	TaskLatestEnd             string                  `json:"task_latest_end,omitempty"`
	AllowSkipUnplaceable      *bool                   `json:"allow_skip_unplaceable,omitempty"`
	MaxTasksToSchedule        *int                    `json:"max_tasks_to_schedule,omitempty"`
	Tasks                     map[string]TaskOverride `json:"tasks,omitempty"`
}

// AllowSkip reports whether unplaceable activities may be dropped. Defaults to true.
func (c Constraints) AllowSkip() bool {
	return c.AllowSkipUnplaceable == nil || *c.AllowSkipUnplaceable
}

// DayOff returns the configured mandatory day off, if it names a known day.
func (c Constraints) DayOff() (constants.Day, bool) {
	if c.MandatoryDayOff == "" {
		return "", false
	}
	day, err := constants.ParseDay(c.MandatoryDayOff)
	if err != nil {
		return "", false
	}
	return day, true
}

// EarliestFor resolves the earliest start for an activity: the activity's own
// field, then the per-task override, then the global default.
func (c Constraints) EarliestFor(a Activity) string {
	if a.EarliestStart != "" {
		return a.EarliestStart
	}
	if o, ok := c.Tasks[a.Name]; ok && o.EarliestStart != "" {
		return o.EarliestStart
	}
	return c.TaskEarliestStart
}

// LatestFor resolves the latest end with the same precedence as EarliestFor.
func (c Constraints) LatestFor(a Activity) string {
	if a.LatestEnd != "" {
		return a.LatestEnd
	}
	if o, ok := c.Tasks[a.Name]; ok && o.LatestEnd != "" {
		return o.LatestEnd
	}
	return c.TaskLatestEnd
}

// TaskLimit returns how many activities a solve may consider, or n when no
// positive limit is configured.
func (c Constraints) TaskLimit(n int) int {
	if c.MaxTasksToSchedule == nil || *c.MaxTasksToSchedule <= 0 || *c.MaxTasksToSchedule > n {
		return n
	}
	return *c.MaxTasksToSchedule
}

// SetOverride records a per-task override, creating the map when needed.
func (c *Constraints) SetOverride(name string, o TaskOverride) {
	if c.Tasks == nil {
		c.Tasks = make(map[string]TaskOverride)
	}
	c.Tasks[name] = o
}

// UnmarshalJSON reads the flat constraints document. Global settings use the
// global_* and task_* keys; per-task overrides may sit under "tasks" or
// directly at the top level keyed by activity name. Values of the wrong type
// are ignored.
func (c *Constraints) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("constraints must be an object: %w", err)
	}

	out := Constraints{}
	topLevel := make(map[string]TaskOverride)

	for key, value := range raw {
		switch key {
		case KeyMandatoryDayOff:
			out.MandatoryDayOff = decodeString(value)
		case KeyNoActivityBlocks:
			out.NoActivityBlocks = decodeRanges(value)
		case KeyMinGap:
			out.MinGapMinutes = decodeInt(value)
		case KeyMaxTasksPerDay:
			out.MaxTasksPerDay = decodeInt(value)
		case KeyMaxHoursPerCategoryPerDay:
			out.MaxHoursPerCategoryPerDay = decodeHours(value)
		case KeyTaskEarliestStart:
			out.TaskEarliestStart = decodeString(value)
		case KeyTaskLatestEnd:
			out.TaskLatestEnd = decodeString(value)
		case KeyAllowSkipUnplaceable:
			out.AllowSkipUnplaceable = decodeBool(value)
		case KeyMaxTasksToSchedule:
			out.MaxTasksToSchedule = decodeInt(value)
		case KeyMaxTasks, KeyMaxUniquePerDay:
			// aliases, resolved below
		case KeyTasks:
			var tasks map[string]json.RawMessage
			if err := json.Unmarshal(value, &tasks); err == nil {
				for name, v := range tasks {
					if o, ok := decodeOverride(v); ok {
						out.SetOverride(name, o)
					}
				}
			}
		default:
			if o, ok := decodeOverride(value); ok {
				topLevel[key] = o
			}
		}
	}

	for name, o := range topLevel {
		if _, exists := out.Tasks[name]; !exists {
			out.SetOverride(name, o)
		}
	}
	if out.MaxTasksToSchedule == nil || *out.MaxTasksToSchedule == 0 {
		if v := decodeInt(raw[KeyMaxTasks]); v != nil {
			out.MaxTasksToSchedule = v
		}
	}
	if out.MaxTasksPerDay == nil {
		out.MaxTasksPerDay = decodeInt(raw[KeyMaxUniquePerDay])
	}

	*c = out
	return nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func decodeInt(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		v := int(f)
		return &v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return &v
		}
	}
	return nil
}

func decodeFloat(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func decodeBool(raw json.RawMessage) *bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return &v
		}
	}
	return nil
}

func decodeHours(raw json.RawMessage) map[string]float64 {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for category, v := range m {
		if f, ok := decodeFloat(v); ok {
			out[category] = f
		}
	}
	return out
}

func decodeRanges(raw json.RawMessage) []TimeRange {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []TimeRange
	for _, item := range items {
		var r TimeRange
		if err := json.Unmarshal(item, &r); err == nil {
			out = append(out, r)
		}
	}
	return out
}

func decodeOverride(raw json.RawMessage) (TaskOverride, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return TaskOverride{}, false
	}
	return TaskOverride{
		EarliestStart: decodeString(obj["earliest_start"]),
		LatestEnd:     decodeString(obj["latest_end"]),
	}, true
}
