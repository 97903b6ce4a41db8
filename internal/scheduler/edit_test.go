package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/weekgrid/internal/constants"
	"github.com/julianstephens/weekgrid/internal/errors"
	"github.com/julianstephens/weekgrid/internal/models"
)

func editFixture() models.WeekSchedule {
	ws := models.NewWeekSchedule()
	for i := range 4 {
		ws.Set(constants.Monday, 4+i, &models.Occupant{Name: "Gym", IsFirstSlot: i == 0, DurationSlots: 4})
	}
	// Back-to-back instance of the same activity.
	for i := range 2 {
		ws.Set(constants.Monday, 8+i, &models.Occupant{Name: "Gym", IsFirstSlot: i == 0, DurationSlots: 2})
	}
	for i := range 2 {
		ws.Set(constants.Monday, 12+i, &models.Occupant{Name: "Lecture", IsFirstSlot: i == 0, IsFixed: true, IsLocked: true})
	}
	return ws
}

func TestBlockAt(t *testing.T) {
	ws := editFixture()

	start, end, ok := BlockAt(ws, constants.Monday, 6)
	require.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 8, end)

	start, end, ok = BlockAt(ws, constants.Monday, 8)
	require.True(t, ok)
	assert.Equal(t, 8, start)
	assert.Equal(t, 10, end)

	_, _, ok = BlockAt(ws, constants.Monday, 0)
	assert.False(t, ok)
}

func TestApplyEditLock(t *testing.T) {
	ws := editFixture()
	out, err := ApplyEdit(ws, Edit{Day: constants.Monday, Slot: 5, Action: constants.EditLock})
	require.NoError(t, err)

	for s := 4; s < 8; s++ {
		occ, _ := out.Get(constants.Monday, s)
		assert.True(t, occ.IsLocked, "slot %d", s)
	}
	occ, _ := out.Get(constants.Monday, 8)
	assert.False(t, occ.IsLocked)

	orig, _ := ws.Get(constants.Monday, 4)
	assert.False(t, orig.IsLocked, "input must not change")
}

func TestApplyEditRemove(t *testing.T) {
	ws := editFixture()
	out, err := ApplyEdit(ws, Edit{Day: constants.Monday, Slot: 9, Action: constants.EditRemove})
	require.NoError(t, err)
	_, ok := out.Get(constants.Monday, 8)
	assert.False(t, ok)
	_, ok = out.Get(constants.Monday, 7)
	assert.True(t, ok)

	_, err = ApplyEdit(ws, Edit{Day: constants.Monday, Slot: 12, Action: constants.EditRemove})
	assert.ErrorIs(t, err, errors.ErrFixedSlot)
}

func TestApplyEditRename(t *testing.T) {
	ws := editFixture()
	out, err := ApplyEdit(ws, Edit{Day: constants.Monday, Slot: 4, Action: constants.EditRename, NewName: "Swim"})
	require.NoError(t, err)
	occ, _ := out.Get(constants.Monday, 7)
	assert.Equal(t, "Swim", occ.Name)

	_, err = ApplyEdit(ws, Edit{Day: constants.Monday, Slot: 4, Action: constants.EditRename, NewName: "  "})
	assert.Error(t, err)
}

func TestApplyEditErrors(t *testing.T) {
	ws := editFixture()
	_, err := ApplyEdit(ws, Edit{Day: constants.Tuesday, Slot: 4, Action: constants.EditLock})
	assert.ErrorIs(t, err, errors.ErrEmptySlot)

	_, err = ApplyEdit(ws, Edit{Day: "Sunday", Slot: 4, Action: constants.EditLock})
	assert.Error(t, err)

	_, err = ApplyEdit(ws, Edit{Day: constants.Monday, Slot: 4, Action: "paint"})
	assert.Error(t, err)
}
