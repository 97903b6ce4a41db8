// Package prompt builds the interactive forms used by the CLI and the TUI.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/scheduler"
)

// ActivityForm holds the raw field values of the activity form.
type ActivityForm struct {
	Name          string
	Duration      string
	Priority      string
	Category      string
	EarliestStart string
	LatestEnd     string
	After         string
	Count         string
}

func NewActivityFormModel() *ActivityForm {
	return &ActivityForm{Duration: "2", Priority: "3", Count: "1"}
}

func NewActivityForm(fm *ActivityForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(notEmpty("activity name")),
			huh.NewInput().
				Title("Duration (hours)").
				Value(&fm.Duration).
				Validate(func(s string) error {
					_, err := parseDuration(s)
					return err
				}),
			huh.NewInput().
				Title("Priority").
				Description("Higher is scheduled first").
				Value(&fm.Priority).
				Validate(func(s string) error {
					_, err := parseNonNegative(s, "priority")
					return err
				}),
			huh.NewInput().
				Title("Times per week").
				Value(&fm.Count).
				Validate(func(s string) error {
					_, err := parseCount(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Category").
				Value(&fm.Category),
			huh.NewInput().
				Title("Earliest start (HH:MM)").
				Value(&fm.EarliestStart).
				Validate(optionalClock),
			huh.NewInput().
				Title("Latest end (HH:MM)").
				Value(&fm.LatestEnd).
				Validate(optionalClock),
			huh.NewInput().
				Title("After").
				Description("Comma-separated activities that must come first on the same day").
				Value(&fm.After),
		),
	).WithTheme(huh.ThemeDracula())
}

// Activities converts the form into one activity per weekly occurrence.
func (fm ActivityForm) Activities() ([]models.Activity, error) {
	name := strings.TrimSpace(fm.Name)
	if name == "" {
		return nil, fmt.Errorf("activity name cannot be empty")
	}
	duration, err := parseDuration(fm.Duration)
	if err != nil {
		return nil, err
	}
	priority, err := parseNonNegative(fm.Priority, "priority")
	if err != nil {
		return nil, err
	}
	count, err := parseCount(fm.Count)
	if err != nil {
		return nil, err
	}
	if err := optionalClock(fm.EarliestStart); err != nil {
		return nil, err
	}
	if err := optionalClock(fm.LatestEnd); err != nil {
		return nil, err
	}

	a := models.Activity{
		Name:          name,
		Duration:      duration,
		Priority:      priority,
		Category:      strings.TrimSpace(fm.Category),
		EarliestStart: strings.TrimSpace(fm.EarliestStart),
		LatestEnd:     strings.TrimSpace(fm.LatestEnd),
		After:         SplitList(fm.After),
	}
	return a.Instances(count), nil
}

// FixedBlockForm holds the raw field values of the fixed block form.
type FixedBlockForm struct {
	Name      string
	Day       constants.Day
	StartTime string
	EndTime   string
	Category  string
}

func NewFixedBlockFormModel() *FixedBlockForm {
	return &FixedBlockForm{Day: constants.Monday, StartTime: "08:00", EndTime: "09:30"}
}

func NewFixedBlockForm(fm *FixedBlockForm) *huh.Form {
	days := make([]huh.Option[constants.Day], 0, len(constants.Days))
	for _, d := range constants.Days {
		days = append(days, huh.NewOption(string(d), d))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(notEmpty("block name")),
			huh.NewSelect[constants.Day]().
				Title("Day").
				Options(days...).
				Value(&fm.Day),
			huh.NewInput().
				Title("Start (HH:MM)").
				Value(&fm.StartTime).
				Validate(ValidClock),
			huh.NewInput().
				Title("End (HH:MM)").
				Value(&fm.EndTime).
				Validate(ValidClock),
			huh.NewInput().
				Title("Category").
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())
}

func (fm FixedBlockForm) FixedBlock() (models.FixedBlock, error) {
	name := strings.TrimSpace(fm.Name)
	if name == "" {
		return models.FixedBlock{}, fmt.Errorf("block name cannot be empty")
	}
	if !fm.Day.Valid() {
		return models.FixedBlock{}, fmt.Errorf("invalid day %q", fm.Day)
	}
	start, end := strings.TrimSpace(fm.StartTime), strings.TrimSpace(fm.EndTime)
	if err := ValidClock(start); err != nil {
		return models.FixedBlock{}, err
	}
	if err := ValidClock(end); err != nil {
		return models.FixedBlock{}, err
	}
	if scheduler.SlotIndex(start) >= scheduler.SlotIndex(end) {
		return models.FixedBlock{}, fmt.Errorf("start %s must be before end %s", start, end)
	}
	return models.FixedBlock{
		Name:      name,
		Day:       fm.Day,
		StartTime: start,
		EndTime:   end,
		Category:  strings.TrimSpace(fm.Category),
		IsLocked:  true,
	}, nil
}

// Confirm asks a yes/no question on the terminal.
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		WithTheme(huh.ThemeDracula()).
		Run()
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}

func notEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

// ValidClock checks an HH:MM time.
func ValidClock(s string) error {
	if scheduler.SlotIndex(s) == constants.InvalidSlot {
		return fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	return nil
}

func optionalClock(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return ValidClock(s)
}

func parseDuration(s string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("duration must be a positive number of hours")
	}
	return d, nil
}

func parseNonNegative(s, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a whole number of at least 0", what)
	}
	return n, nil
}

func parseCount(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("times per week must be at least 1")
	}
	return n, nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
