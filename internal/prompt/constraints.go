package prompt

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
)

// ConstraintsForm holds the constraints as editable strings. Empty fields
// mean "not configured".
type ConstraintsForm struct {
	DayOff             string
	NoActivityBlocks   string
	MinGap             string
	MaxTasksPerDay     string
	CategoryHours      string
	EarliestStart      string
	LatestEnd          string
	AllowSkip          bool
	MaxTasksToSchedule string
	Tasks              []TaskWindow
}

// TaskWindow is the per-activity part of the constraints form.
type TaskWindow struct {
	Name          string
	EarliestStart string
	LatestEnd     string
}

// ConstraintsFormFrom fills a form from c. Every name in names gets a task
// window, plus any override c already holds.
func ConstraintsFormFrom(c models.Constraints, names []string) *ConstraintsForm {
	fm := &ConstraintsForm{
		DayOff:             c.MandatoryDayOff,
		NoActivityBlocks:   FormatRanges(c.NoActivityBlocks),
		MinGap:             formatIntPtr(c.MinGapMinutes),
		MaxTasksPerDay:     formatIntPtr(c.MaxTasksPerDay),
		CategoryHours:      FormatCategoryHours(c.MaxHoursPerCategoryPerDay),
		EarliestStart:      c.TaskEarliestStart,
		LatestEnd:          c.TaskLatestEnd,
		AllowSkip:          c.AllowSkip(),
		MaxTasksToSchedule: formatIntPtr(c.MaxTasksToSchedule),
	}

	all := slices.Clone(names)
	for name := range c.Tasks {
		all = append(all, name)
	}
	slices.Sort(all)
	for _, name := range slices.Compact(all) {
		o := c.Tasks[name]
		fm.Tasks = append(fm.Tasks, TaskWindow{Name: name, EarliestStart: o.EarliestStart, LatestEnd: o.LatestEnd})
	}
	return fm
}

func NewConstraintsForm(fm *ConstraintsForm) *huh.Form {
	days := []huh.Option[string]{huh.NewOption("None", "")}
	for _, d := range constants.Days {
		days = append(days, huh.NewOption(string(d), string(d)))
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Mandatory day off").
				Options(days...).
				Value(&fm.DayOff),
			huh.NewInput().
				Title("No-activity blocks").
				Description("e.g. 12:00-13:00, 18:00-19:00").
				Value(&fm.NoActivityBlocks).
				Validate(func(s string) error {
					_, err := ParseRanges(s)
					return err
				}),
			huh.NewInput().
				Title("Minimum gap (minutes)").
				Value(&fm.MinGap).
				Validate(validOptionalInt),
			huh.NewInput().
				Title("Max activities per day").
				Value(&fm.MaxTasksPerDay).
				Validate(validOptionalInt),
			huh.NewInput().
				Title("Max hours per category per day").
				Description("e.g. study=4, sport=2").
				Value(&fm.CategoryHours).
				Validate(func(s string) error {
					_, err := ParseCategoryHours(s)
					return err
				}),
		).Title("Global limits"),
		huh.NewGroup(
			huh.NewInput().
				Title("Default earliest start (HH:MM)").
				Value(&fm.EarliestStart).
				Validate(optionalClock),
			huh.NewInput().
				Title("Default latest end (HH:MM)").
				Value(&fm.LatestEnd).
				Validate(optionalClock),
			huh.NewConfirm().
				Title("Skip activities that cannot be placed?").
				Value(&fm.AllowSkip),
			huh.NewInput().
				Title("Max activities to schedule").
				Description("Blank or 0 schedules all").
				Value(&fm.MaxTasksToSchedule).
				Validate(validOptionalInt),
		).Title("Defaults"),
	}

	for i := range fm.Tasks {
		tw := &fm.Tasks[i]
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Earliest start (HH:MM)").
				Value(&tw.EarliestStart).
				Validate(optionalClock),
			huh.NewInput().
				Title("Latest end (HH:MM)").
				Value(&tw.LatestEnd).
				Validate(optionalClock),
		).Title(tw.Name))
	}

	return huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
}

// Constraints converts the form back. Task windows left blank are dropped.
func (fm ConstraintsForm) Constraints() (models.Constraints, error) {
	var c models.Constraints
	var err error

	if fm.DayOff != "" {
		day, err := constants.ParseDay(fm.DayOff)
		if err != nil {
			return c, err
		}
		c.MandatoryDayOff = string(day)
	}
	if c.NoActivityBlocks, err = ParseRanges(fm.NoActivityBlocks); err != nil {
		return c, err
	}
	if c.MinGapMinutes, err = parseOptionalInt(fm.MinGap); err != nil {
		return c, err
	}
	if c.MaxTasksPerDay, err = parseOptionalInt(fm.MaxTasksPerDay); err != nil {
		return c, err
	}
	if c.MaxHoursPerCategoryPerDay, err = ParseCategoryHours(fm.CategoryHours); err != nil {
		return c, err
	}
	if c.MaxTasksToSchedule, err = parseOptionalInt(fm.MaxTasksToSchedule); err != nil {
		return c, err
	}
	for _, t := range []string{fm.EarliestStart, fm.LatestEnd} {
		if err := optionalClock(t); err != nil {
			return c, err
		}
	}
	c.TaskEarliestStart = strings.TrimSpace(fm.EarliestStart)
	c.TaskLatestEnd = strings.TrimSpace(fm.LatestEnd)
	allow := fm.AllowSkip
	c.AllowSkipUnplaceable = &allow

	for _, tw := range fm.Tasks {
		es, le := strings.TrimSpace(tw.EarliestStart), strings.TrimSpace(tw.LatestEnd)
		if es == "" && le == "" {
			continue
		}
		if err := optionalClock(es); err != nil {
			return c, fmt.Errorf("%s: %w", tw.Name, err)
		}
		if err := optionalClock(le); err != nil {
			return c, fmt.Errorf("%s: %w", tw.Name, err)
		}
		c.SetOverride(tw.Name, models.TaskOverride{EarliestStart: es, LatestEnd: le})
	}
	return c, nil
}

// ParseRanges reads "HH:MM-HH:MM" pairs separated by commas.
func ParseRanges(s string) ([]models.TimeRange, error) {
	var out []models.TimeRange
	for _, part := range SplitList(s) {
		start, end, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("invalid range %q (expected HH:MM-HH:MM)", part)
		}
		start, end = strings.TrimSpace(start), strings.TrimSpace(end)
		if err := ValidClock(start); err != nil {
			return nil, err
		}
		if err := ValidClock(end); err != nil {
			return nil, err
		}
		out = append(out, models.TimeRange{Start: start, End: end})
	}
	return out, nil
}

func FormatRanges(ranges []models.TimeRange) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.Start+"-"+r.End)
	}
	return strings.Join(parts, ", ")
}

// ParseCategoryHours reads "category=hours" pairs separated by commas.
func ParseCategoryHours(s string) (map[string]float64, error) {
	pairs := SplitList(s)
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(pairs))
	for _, part := range pairs {
		cat, hours, ok := strings.Cut(part, "=")
		cat = strings.TrimSpace(cat)
		if !ok || cat == "" {
			return nil, fmt.Errorf("invalid category limit %q (expected name=hours)", part)
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(hours), 64)
		if err != nil || h < 0 {
			return nil, fmt.Errorf("invalid hours for category %q", cat)
		}
		out[cat] = h
	}
	return out, nil
}

func FormatCategoryHours(m map[string]float64) string {
	cats := make([]string, 0, len(m))
	for cat := range m {
		cats = append(cats, cat)
	}
	slices.Sort(cats)
	parts := make([]string, 0, len(cats))
	for _, cat := range cats {
		parts = append(parts, cat+"="+strconv.FormatFloat(m[cat], 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}

func parseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", s)
	}
	return &n, nil
}

func validOptionalInt(s string) error {
	_, err := parseOptionalInt(s)
	return err
}

func formatIntPtr(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
