package activities

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/weekgrid/internal/cli"
	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/scheduler"
	"github.com/julianstephens/weekgrid/internal/storage"
)

func newContext(t *testing.T) *cli.Context {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, store.Init())
	return &cli.Context{Store: store, Scheduler: scheduler.New()}
}

func TestActivityAdd(t *testing.T) {
	ctx := newContext(t)

	cmd := &ActivityAddCmd{Name: "Gym", Duration: 1.5, Priority: 4, Category: "health", After: []string{"Breakfast"}, Count: 1}
	require.NoError(t, cmd.Run(ctx))

	acts, err := ctx.Store.GetActivities()
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "Gym", acts[0].Name)
	assert.Equal(t, 1.5, acts[0].Duration)
	assert.Equal(t, 4, acts[0].Priority)
	assert.Equal(t, []string{"Breakfast"}, acts[0].After)
	assert.NotEmpty(t, acts[0].ID)
}

func TestActivityAddCount(t *testing.T) {
	ctx := newContext(t)

	require.NoError(t, (&ActivityAddCmd{Name: "Run", Duration: 1, Priority: 3, Count: 3}).Run(ctx))

	acts, err := ctx.Store.GetActivities()
	require.NoError(t, err)
	var names []string
	for _, a := range acts {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Run 1", "Run 2", "Run 3"}, names)
}

func TestActivityAddRejects(t *testing.T) {
	ctx := newContext(t)
	require.NoError(t, (&ActivityAddCmd{Name: "Gym", Duration: 1, Priority: 3, Count: 1}).Run(ctx))

	err := (&ActivityAddCmd{Name: "Gym", Duration: 2, Priority: 3, Count: 1}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.Error(t, (&ActivityAddCmd{Name: "Late", Duration: 1, Priority: 3, Earliest: "7pm", Count: 1}).Run(ctx))
	assert.Error(t, (&ActivityAddCmd{Name: "Zero", Duration: 0, Priority: 3, Count: 1}).Run(ctx))
	assert.Error(t, (&ActivityAddCmd{Count: 0}).Validate())
}

func TestActivityDelete(t *testing.T) {
	ctx := newContext(t)
	require.NoError(t, (&ActivityAddCmd{Name: "Gym", Duration: 1, Priority: 3, Count: 1}).Run(ctx))

	require.NoError(t, (&ActivityDeleteCmd{Ref: "Gym"}).Run(ctx))
	acts, err := ctx.Store.GetActivities()
	require.NoError(t, err)
	assert.Empty(t, acts)

	assert.Error(t, (&ActivityDeleteCmd{Ref: "Gym"}).Run(ctx))
}

func TestFixedAdd(t *testing.T) {
	ctx := newContext(t)

	require.NoError(t, (&FixedAddCmd{Name: "Calculus", Day: "mon", Start: "08:00", End: "09:30"}).Run(ctx))
	// overlaps only warn
	require.NoError(t, (&FixedAddCmd{Name: "Lab", Day: "Monday", Start: "09:00", End: "10:00"}).Run(ctx))

	blocks, err := ctx.Store.GetFixedBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, constants.Monday, blocks[0].Day)
	assert.True(t, blocks[0].IsLocked)

	assert.Error(t, (&FixedAddCmd{Name: "Weekend", Day: "Saturday", Start: "08:00", End: "09:00"}).Run(ctx))
	assert.Error(t, (&FixedAddCmd{Name: "Backwards", Day: "Tuesday", Start: "10:00", End: "09:00"}).Run(ctx))
}

func TestFixedDelete(t *testing.T) {
	ctx := newContext(t)
	require.NoError(t, (&FixedAddCmd{Name: "Calculus", Day: "Monday", Start: "08:00", End: "09:30"}).Run(ctx))

	require.NoError(t, (&FixedDeleteCmd{Ref: "Calculus"}).Run(ctx))
	blocks, err := ctx.Store.GetFixedBlocks()
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
