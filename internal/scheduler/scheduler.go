package scheduler

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/logger"
	"github.com/julianstephens/weekgrid/internal/models"
)

// Result is the outcome of a solve.
type Result struct {
	Schedule models.WeekSchedule
	Status   string
	Stats    Stats
}

// Stats describes how a solve went.
type Stats struct {
	Considered int           // activities handed to the search
	Placed     []string      // names placed by the search, in search order
	Skipped    []string      // names dropped as unplaceable
	Truncated  []string      // names cut by max_tasks_to_schedule
	Excluded   []string      // names already satisfied by a locked slot
	Nodes      int64         // search nodes visited
	Elapsed    time.Duration // wall time of the search
}

// Recorder receives one observation per finished solve.
type Recorder interface {
	ObserveSolve(status string, nodes int64, elapsed time.Duration)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMaxNodes bounds the number of search nodes. Zero or less disables the bound.
func WithMaxNodes(n int64) Option {
	return func(s *Scheduler) { s.maxNodes = n }
}

// WithLogger sets the logger used for malformed-record warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithRecorder reports every solve to r.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) { s.recorder = r }
}

type Scheduler struct {
	maxNodes int64
	log      *log.Logger
	recorder Recorder
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{maxNodes: constants.DefaultMaxNodes}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// Solve places the document's activities around its fixed blocks and locked
// slots. It never fails: problems are reported through Result.Status and
// malformed records are logged and skipped.
func (s *Scheduler) Solve(ctx context.Context, doc models.Document, c models.Constraints) Result {
	if len(doc.Activities) == 0 {
		return Result{Schedule: models.WeekSchedule{}, Status: constants.StatusNoActivities}
	}

	prior := doc.GeneratedSchedule.Normalized()

	seed := NewSchedule()
	s.seedFixed(seed, doc.FixedSchedule)
	pinned := s.seedLocked(seed, prior)

	names := make([]string, 0, len(doc.Activities))
	for _, a := range doc.Activities {
		names = append(names, a.Name)
	}
	eval := NewEvaluator(c, names)

	lockedNames := make(map[string]bool)
	for day := range constants.DaysPerWeek {
		for _, b := range seed.Blocks(day) {
			if b.Locked && !b.Fixed {
				lockedNames[b.Name] = true
			}
		}
	}

	var stats Stats
	pending := make([]models.Activity, 0, len(doc.Activities))
	for _, a := range doc.Activities {
		if lockedNames[a.Name] {
			stats.Excluded = append(stats.Excluded, a.Name)
			continue
		}
		pending = append(pending, a)
	}

	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority != pending[j].Priority {
			return pending[i].Priority > pending[j].Priority
		}
		return pending[i].Duration < pending[j].Duration
	})

	limit := c.TaskLimit(len(pending))
	for _, a := range pending[limit:] {
		stats.Truncated = append(stats.Truncated, a.Name)
	}
	pending = pending[:limit]

	tasks := make([]task, 0, len(pending))
	for _, a := range pending {
		tasks = append(tasks, eval.prepare(a))
	}
	stats.Considered = len(tasks)

	sr := &searcher{
		ctx:       ctx,
		eval:      eval,
		tasks:     tasks,
		allowSkip: c.AllowSkip(),
		maxNodes:  s.maxNodes,
	}
	began := time.Now()
	final, ok := sr.run(seed, 0)
	stats.Elapsed = time.Since(began)
	stats.Nodes = sr.nodes

	var result Result
	switch {
	case sr.aborted:
		result = Result{Schedule: seed.WeekSchedule().Merge(pinned), Status: constants.StatusBudgetExceeded}
		s.log.Warn("search budget exhausted", "nodes", sr.nodes, "max_nodes", s.maxNodes, "ctx_err", ctx.Err())
	case ok:
		stats.Skipped = sr.skipped
		for _, t := range tasks {
			if slices.Contains(stats.Skipped, t.name) || (t.locked && seed.Contains(t.name)) {
				continue
			}
			stats.Placed = append(stats.Placed, t.name)
		}
		result = Result{Schedule: prior.Merge(final.WeekSchedule()), Status: constants.StatusSuccess}
	default:
		result = Result{Schedule: seed.WeekSchedule().Merge(pinned), Status: constants.StatusFailure}
	}
	result.Stats = stats

	s.log.Debug("solve finished", "status", result.Status, "considered", stats.Considered,
		"placed", len(stats.Placed), "skipped", len(stats.Skipped), "nodes", stats.Nodes, "elapsed", stats.Elapsed)
	if s.recorder != nil {
		s.recorder.ObserveSolve(result.Status, stats.Nodes, stats.Elapsed)
	}
	return result
}

// seedFixed places every fixed block, clamped to the grid. Blocks on unknown
// days or with an empty range after clamping are skipped.
func (s *Scheduler) seedFixed(seed *Schedule, blocks []models.FixedBlock) {
	for _, fb := range blocks {
		day := fb.Day.Index()
		if day < 0 {
			s.log.Warn("skipping fixed block on unknown day", "name", fb.Name, "day", fb.Day)
			continue
		}
		start := max(0, SlotIndex(orMidnight(fb.StartTime)))
		end := min(constants.SlotsPerDay, SlotIndex(orMidnight(fb.EndTime)))
		if end <= start {
			s.log.Warn("skipping fixed block with empty range", "name", fb.Name, "day", fb.Day,
				"start", fb.StartTime, "end", fb.EndTime)
			continue
		}
		seed.Place(day, Block{
			Name:     fb.DisplayName(),
			Category: fb.Category,
			Start:    start,
			Length:   end - start,
			Fixed:    true,
		})
	}
}

// seedLocked overlays locked slots of the prior schedule onto free cells.
// Contiguous slots sharing a name become one block; a slot flagged as a first
// slot starts a new one. Locked slots outside the grid cannot be searched
// around, so they are returned to be carried into the output unchanged.
func (s *Scheduler) seedLocked(seed *Schedule, prior models.WeekSchedule) models.WeekSchedule {
	pinned := models.WeekSchedule{}
	for di, day := range constants.Days {
		var slots []int
		for key, occ := range prior[day] {
			if occ == nil || !occ.IsLocked {
				continue
			}
			slot, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			if slot < 0 || slot >= constants.SlotsPerDay {
				s.log.Warn("locked slot outside the grid kept as is", "day", day, "slot", slot, "name", occ.Name)
				pinned.Set(day, slot, occ)
				continue
			}
			if seed.Occupied(di, slot) {
				s.log.Warn("locked slot collides with a fixed block", "day", day, "slot", slot, "name", occ.Name)
				continue
			}
			slots = append(slots, slot)
		}
		sort.Ints(slots)

		var run []*models.Occupant
		runStart := -1
		flush := func() {
			if len(run) == 0 {
				return
			}
			first := run[0]
			seed.Place(di, Block{
				Name:     first.Name,
				Category: first.Category,
				Priority: first.Priority,
				Start:    runStart,
				Length:   len(run),
				Fixed:    first.IsFixed,
				Locked:   true,
				records:  run,
			})
			run, runStart = nil, -1
		}
		for _, slot := range slots {
			occ, _ := prior.Get(day, slot)
			continues := len(run) > 0 &&
				slot == runStart+len(run) &&
				occ.Name == run[0].Name &&
				!occ.IsFirstSlot
			if !continues {
				flush()
				runStart = slot
			}
			run = append(run, occ)
		}
		flush()
	}
	return pinned
}

func orMidnight(s string) string {
	if s == "" {
		return "00:00"
	}
	return s
}

// Succeeded reports whether the search placed the activities.
func (r Result) Succeeded() bool {
	return r.Status == constants.StatusSuccess
}
