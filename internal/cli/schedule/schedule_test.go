package schedule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/errors"
	"github.com/julianstephens/weekgrid/internal/models"
	"github.com/julianstephens/weekgrid/internal/scheduler"
	"github.com/julianstephens/weekgrid/internal/storage"
)

func newContext(t *testing.T) *cli.Context {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, store.Init())
	return &cli.Context{Store: store, Scheduler: scheduler.New()}
}

func seed(t *testing.T, ctx *cli.Context) {
	t.Helper()
	require.NoError(t, ctx.Store.AddFixedBlock(models.FixedBlock{
		Name: "Calculus", Day: constants.Monday, StartTime: "08:00", EndTime: "09:30",
	}))
	require.NoError(t, ctx.Store.AddActivity(models.Activity{Name: "Gym", Duration: 1, Priority: 3}))
}

func TestGenerateSavesOnSuccess(t *testing.T) {
	ctx := newContext(t)
	seed(t, ctx)

	require.NoError(t, (&GenerateCmd{Quiet: true}).Run(ctx))

	ws, err := ctx.Store.GetGeneratedSchedule()
	require.NoError(t, err)
	occ, ok := ws.Get(constants.Monday, 4)
	require.True(t, ok)
	assert.Equal(t, "Calculus", occ.Name)
	assert.True(t, occ.IsFixed)
	assert.Equal(t, 2, countSlots(ws, "Gym"))
}

func TestGenerateDryRun(t *testing.T) {
	ctx := newContext(t)
	seed(t, ctx)

	require.NoError(t, (&GenerateCmd{DryRun: true}).Run(ctx))

	ws, err := ctx.Store.GetGeneratedSchedule()
	require.NoError(t, err)
	assert.True(t, ws.IsEmpty())
}

func TestGenerateNoActivities(t *testing.T) {
	ctx := newContext(t)
	assert.NoError(t, (&GenerateCmd{}).Run(ctx))
}

func TestGenerateFailure(t *testing.T) {
	ctx := newContext(t)
	seed(t, ctx)

	path := filepath.Join(t.TempDir(), "constraints.yaml")
	body := "global_max_tasks_per_day: 0\nallow_skip_unplaceable: false\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	err := (&GenerateCmd{Constraints: path, SaveConstraints: true}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feasible schedule")

	ws, err := ctx.Store.GetGeneratedSchedule()
	require.NoError(t, err)
	assert.True(t, ws.IsEmpty())

	stored, err := ctx.Store.GetConstraints()
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.MaxTasksPerDay)
	assert.Equal(t, 0, *stored.MaxTasksPerDay)
}

func TestEdit(t *testing.T) {
	ctx := newContext(t)
	seed(t, ctx)
	require.NoError(t, (&GenerateCmd{Quiet: true}).Run(ctx))

	ws, err := ctx.Store.GetGeneratedSchedule()
	require.NoError(t, err)
	day, slot := find(t, ws, "Gym")

	require.NoError(t, (&EditCmd{Action: constants.EditLock, Day: string(day), Time: scheduler.TimeFromIndex(slot)}).Run(ctx))
	ws, err = ctx.Store.GetGeneratedSchedule()
	require.NoError(t, err)
	occ, _ := ws.Get(day, slot+1)
	assert.True(t, occ.IsLocked, "lock covers the whole block")

	err = (&EditCmd{Action: constants.EditRemove, Day: "Monday", Time: "08:30"}).Run(ctx)
	assert.True(t, errors.Is(err, errors.ErrFixedSlot))

	assert.Error(t, (&EditCmd{Action: constants.EditRename, Day: "Monday", Time: "08:00"}).Validate())
	require.NoError(t, (&EditCmd{Action: constants.EditRename, Day: "Monday", Time: "09:00", Name: "Analysis"}).Run(ctx))
	ws, err = ctx.Store.GetGeneratedSchedule()
	require.NoError(t, err)
	assert.Equal(t, 3, countSlots(ws, "Analysis"))

	assert.Error(t, (&EditCmd{Action: constants.EditLock, Day: "Monday", Time: "05:00"}).Run(ctx))
}

func TestEditWithoutSchedule(t *testing.T) {
	ctx := newContext(t)
	err := (&EditCmd{Action: constants.EditLock, Day: "Monday", Time: "08:00"}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate")
}

func TestExportToFile(t *testing.T) {
	ctx := newContext(t)
	seed(t, ctx)

	out := filepath.Join(t.TempDir(), "week.yaml")
	require.NoError(t, (&ExportCmd{Format: "yaml", Output: out}).Run(ctx))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "activities:")
	assert.Contains(t, string(data), "name: Gym")
	assert.Contains(t, string(data), "name: Calculus")
}

func countSlots(ws models.WeekSchedule, name string) int {
	n := 0
	for _, slots := range ws {
		for _, occ := range slots {
			if occ != nil && occ.Name == name {
				n++
			}
		}
	}
	return n
}

func find(t *testing.T, ws models.WeekSchedule, name string) (constants.Day, int) {
	t.Helper()
	for _, day := range constants.Days {
		for slot := range constants.SlotsPerDay {
			if occ, ok := ws.Get(day, slot); ok && occ.Name == name && occ.IsFirstSlot {
				return day, slot
			}
		}
	}
	t.Fatalf("%s not found", name)
	return "", 0
}
