// Package report summarizes a solve: per-day load and how evenly the week is
// spread.
package report

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/scheduler"
)

// DayLoad is the scheduled time on one day, in hours.
type DayLoad struct {
	Day        constants.Day
	Hours      float64 // generated, non-fixed slots
	FixedHours float64
}

type Report struct {
	Status      string
	Days        []DayLoad
	Mean        float64
	StdDev      float64
	Placed      []string
	Skipped     []string
	Truncated   []string
	Excluded    []string
	Nodes       int64
	Elapsed     time.Duration
	Fingerprint string
}

// Build computes the report for a solve result. The fingerprint is left
// empty if the schedule cannot be hashed.
func Build(res scheduler.Result) Report {
	r := Report{
		Status:    res.Status,
		Placed:    res.Stats.Placed,
		Skipped:   res.Stats.Skipped,
		Truncated: res.Stats.Truncated,
		Excluded:  res.Stats.Excluded,
		Nodes:     res.Stats.Nodes,
		Elapsed:   res.Stats.Elapsed,
	}
	r.Days = Loads(res.Schedule)

	hours := make([]float64, len(r.Days))
	for i, d := range r.Days {
		hours[i] = d.Hours
	}
	r.Mean, r.StdDev = stat.MeanStdDev(hours, nil)

	if fp, err := scheduler.Fingerprint(res.Schedule); err == nil {
		r.Fingerprint = fp
	}
	return r
}

// Loads returns the occupied hours of every day in week order. Slots beyond
// the grid are ignored.
func Loads(ws models.WeekSchedule) []DayLoad {
	loads := make([]DayLoad, 0, len(constants.Days))
	for _, day := range constants.Days {
		load := DayLoad{Day: day}
		for slot := range constants.SlotsPerDay {
			occ, ok := ws.Get(day, slot)
			if !ok {
				continue
			}
			if occ.IsFixed {
				load.FixedHours += constants.SlotHours
			} else {
				load.Hours += constants.SlotHours
			}
		}
		loads = append(loads, load)
	}
	return loads
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	for _, d := range r.Days {
		fmt.Fprintf(&b, "  %-10s %5.1fh scheduled, %5.1fh fixed\n", d.Day, d.Hours, d.FixedHours)
	}
	fmt.Fprintf(&b, "Daily load: mean %.2fh, stddev %.2fh\n", r.Mean, r.StdDev)
	writeNames(&b, "Placed", r.Placed)
	writeNames(&b, "Skipped", r.Skipped)
	writeNames(&b, "Not considered (max tasks)", r.Truncated)
	writeNames(&b, "Kept from locked slots", r.Excluded)
	fmt.Fprintf(&b, "Search: %d nodes in %s\n", r.Nodes, r.Elapsed.Round(time.Microsecond))
	if r.Fingerprint != "" {
		fmt.Fprintf(&b, "Fingerprint: %s\n", r.Fingerprint[:16])
	}
	return b.String()
}

func writeNames(b *strings.Builder, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d): %s\n", label, len(names), strings.Join(names, ", "))
}
