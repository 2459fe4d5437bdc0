package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandles_DerivedFromSortedItems(t *testing.T) {
	vp := testViewport()
	// Deliberately unsorted input.
	items := []Item{
		{ID: "b", Start: date(2024, 1, 12), End: date(2024, 1, 20)},
		{ID: "a", Start: date(2024, 1, 1), End: date(2024, 1, 10)},
		{ID: "c", Start: date(2024, 1, 25), End: date(2024, 2, 5)},
	}

	handles := Handles(items, vp)
	require.Len(t, handles, 4) // extend-left, 2 boundaries, extend-right

	assert.Equal(t, HandleExtendLeft, handles[0].Kind)
	assert.Equal(t, "a", handles[0].PhaseID)
	assert.Equal(t, date(2024, 1, 1), handles[0].Position)
	assert.Equal(t, 0.0, handles[0].X)

	assert.Equal(t, HandleAdjustBoth, handles[1].Kind)
	assert.Equal(t, "a", handles[1].PhaseID)
	assert.Equal(t, "b", handles[1].AdjacentPhaseID)
	assert.Equal(t, date(2024, 1, 10), handles[1].Position)
	assert.Equal(t, 90.0, handles[1].X)

	assert.Equal(t, HandleAdjustBoth, handles[2].Kind)
	assert.Equal(t, "b", handles[2].PhaseID)
	assert.Equal(t, "c", handles[2].AdjacentPhaseID)

	assert.Equal(t, HandleExtendRight, handles[3].Kind)
	assert.Equal(t, "c", handles[3].PhaseID)
	assert.Equal(t, date(2024, 2, 5), handles[3].Position)
}

func TestHandles_SingleItem(t *testing.T) {
	items := []Item{{ID: "a", Start: date(2024, 1, 1), End: date(2024, 1, 10)}}
	handles := Handles(items, testViewport())

	require.Len(t, handles, 2)
	assert.Equal(t, HandleExtendLeft, handles[0].Kind)
	assert.Equal(t, HandleExtendRight, handles[1].Kind)
}

func TestHandles_Empty(t *testing.T) {
	assert.Nil(t, Handles(nil, testViewport()))
}
