package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/weekgrid/internal/constants"
)

func TestWeekScheduleUnmarshal_Nested(t *testing.T) {
	data := `{
		"Monday": {"4": {"name": "Gym", "is_first_slot": true}, "x": {"name": "bad"}, "5": null},
		"Saturday": {"1": {"name": "Ignored"}},
		"Tuesday": "not an object"
	}`

	var ws WeekSchedule
	require.NoError(t, json.Unmarshal([]byte(data), &ws))

	assert.Len(t, ws, constants.DaysPerWeek)
	occ, ok := ws.Get(constants.Monday, 4)
	require.True(t, ok)
	assert.Equal(t, "Gym", occ.Name)
	assert.True(t, occ.IsFirstSlot)
	assert.Len(t, ws[constants.Monday], 1)
	assert.Empty(t, ws[constants.Tuesday])
	_, exists := ws["Saturday"]
	assert.False(t, exists)
}

func TestWeekScheduleUnmarshal_FlatList(t *testing.T) {
	data := `[
		{"day": "Wednesday", "slot": 3, "activity": {"name": "Read"}},
		{"day": "Thursday", "slot": "7", "act": {"name": "Write"}},
		{"day": "Friday", "slot": 1, "name": "Inline"},
		{"day": "Sunday", "slot": 1, "activity": {"name": "Nope"}},
		{"day": "Monday", "slot": "abc", "activity": {"name": "Nope"}},
		42
	]`

	var ws WeekSchedule
	require.NoError(t, json.Unmarshal([]byte(data), &ws))

	occ, ok := ws.Get(constants.Wednesday, 3)
	require.True(t, ok)
	assert.Equal(t, "Read", occ.Name)

	occ, ok = ws.Get(constants.Thursday, 7)
	require.True(t, ok)
	assert.Equal(t, "Write", occ.Name)

	occ, ok = ws.Get(constants.Friday, 1)
	require.True(t, ok)
	assert.Equal(t, "Inline", occ.Name)

	assert.Empty(t, ws[constants.Monday])
}

func TestWeekScheduleUnmarshal_UnknownShape(t *testing.T) {
	var ws WeekSchedule
	require.NoError(t, json.Unmarshal([]byte(`"garbage"`), &ws))
	assert.True(t, ws.IsEmpty())
	assert.Len(t, ws, constants.DaysPerWeek)
}

func TestWeekScheduleMerge_OtherWins(t *testing.T) {
	base := NewWeekSchedule()
	base.Set(constants.Monday, 1, &Occupant{Name: "Old"})
	base.Set(constants.Monday, 2, &Occupant{Name: "Kept"})

	other := NewWeekSchedule()
	other.Set(constants.Monday, 1, &Occupant{Name: "New"})

	merged := base.Merge(other)
	occ, _ := merged.Get(constants.Monday, 1)
	assert.Equal(t, "New", occ.Name)
	occ, _ = merged.Get(constants.Monday, 2)
	assert.Equal(t, "Kept", occ.Name)

	// base untouched
	occ, _ = base.Get(constants.Monday, 1)
	assert.Equal(t, "Old", occ.Name)
}

func TestWeekScheduleClone_Independent(t *testing.T) {
	ws := NewWeekSchedule()
	ws.Set(constants.Friday, 0, &Occupant{Name: "A"})

	cp := ws.Clone()
	occ, _ := cp.Get(constants.Friday, 0)
	occ.Name = "B"

	orig, _ := ws.Get(constants.Friday, 0)
	assert.Equal(t, "A", orig.Name)
}

func TestConstraintsUnmarshal_Legacy(t *testing.T) {
	data := `{
		"global_mandatory_day_off": "Friday",
		"global_no_activity_blocks": [["12:00", "13:00"], {"start": "18:00", "end": "19:00"}, "bad"],
		"global_min_gap": "30",
		"global_max_unique_activities_per_day": 3,
		"global_max_hours_per_category_per_day": {"study": 4, "sport": "1.5", "bad": true},
		"task_earliest_start": "08:00",
		"task_latest_end": "22:00",
		"allow_skip_unplaceable": false,
		"max_tasks": 5,
		"Gym": {"earliest_start": "16:00"},
		"tasks": {"Read": {"latest_end": "20:00"}, "Gym": {"earliest_start": "07:00"}}
	}`

	var c Constraints
	require.NoError(t, json.Unmarshal([]byte(data), &c))

	assert.Equal(t, "Friday", c.MandatoryDayOff)
	assert.Equal(t, []TimeRange{{"12:00", "13:00"}, {"18:00", "19:00"}}, c.NoActivityBlocks)
	require.NotNil(t, c.MinGapMinutes)
	assert.Equal(t, 30, *c.MinGapMinutes)
	require.NotNil(t, c.MaxTasksPerDay)
	assert.Equal(t, 3, *c.MaxTasksPerDay)
	assert.Equal(t, map[string]float64{"study": 4, "sport": 1.5}, c.MaxHoursPerCategoryPerDay)
	assert.False(t, c.AllowSkip())
	require.NotNil(t, c.MaxTasksToSchedule)
	assert.Equal(t, 5, *c.MaxTasksToSchedule)

	// explicit "tasks" entry wins over the top-level one
	assert.Equal(t, "07:00", c.Tasks["Gym"].EarliestStart)
	assert.Equal(t, "20:00", c.Tasks["Read"].LatestEnd)
}

func TestConstraintsWindowPrecedence(t *testing.T) {
	c := Constraints{
		TaskEarliestStart: "08:00",
		TaskLatestEnd:     "22:00",
		Tasks:             map[string]TaskOverride{"Gym": {EarliestStart: "16:00"}},
	}

	tests := []struct {
		name     string
		activity Activity
		earliest string
		latest   string
	}{
		{"global default", Activity{Name: "Read"}, "08:00", "22:00"},
		{"per-task override", Activity{Name: "Gym"}, "16:00", "22:00"},
		{"activity field", Activity{Name: "Gym", EarliestStart: "10:00", LatestEnd: "12:00"}, "10:00", "12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.earliest, c.EarliestFor(tt.activity))
			assert.Equal(t, tt.latest, c.LatestFor(tt.activity))
		})
	}
}

func TestConstraintsTaskLimit(t *testing.T) {
	zero, two, ten := 0, 2, 10
	assert.Equal(t, 4, Constraints{}.TaskLimit(4))
	assert.Equal(t, 4, Constraints{MaxTasksToSchedule: &zero}.TaskLimit(4))
	assert.Equal(t, 2, Constraints{MaxTasksToSchedule: &two}.TaskLimit(4))
	assert.Equal(t, 4, Constraints{MaxTasksToSchedule: &ten}.TaskLimit(4))
}

func TestConstraintsDayOff(t *testing.T) {
	day, ok := Constraints{MandatoryDayOff: "wed"}.DayOff()
	assert.True(t, ok)
	assert.Equal(t, constants.Wednesday, day)

	_, ok = Constraints{MandatoryDayOff: "Sunday"}.DayOff()
	assert.False(t, ok)
}

func TestTimeRangeRoundTripShape(t *testing.T) {
	out, err := json.Marshal(TimeRange{Start: "12:00", End: "13:00"})
	require.NoError(t, err)
	assert.JSONEq(t, `["12:00","13:00"]`, string(out))

	var r TimeRange
	assert.Error(t, json.Unmarshal([]byte(`["12:00"]`), &r))
}

func TestActivityInstances(t *testing.T) {
	a := Activity{ID: "x", Name: "Kerkom", Duration: 2, Priority: 3, After: []string{"Lecture"}}

	assert.Equal(t, []Activity{a}, a.Instances(1))
	assert.Equal(t, []Activity{a}, a.Instances(0))

	got := a.Instances(3)
	require.Len(t, got, 3)
	assert.Equal(t, "Kerkom 1", got[0].Name)
	assert.Equal(t, "Kerkom 3", got[2].Name)
	assert.Empty(t, got[1].ID)
	assert.Equal(t, 2.0, got[1].Duration)

	got[0].After[0] = "changed"
	assert.Equal(t, "Lecture", a.After[0])
}
