package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moschd/binstow/internal/model"
)

// TestCluster_PreviousUnfittedTracksEveryUnfitBranch reproduces a sequence
// where an item unfitted via the capacity check sits between two
// equal-shape items, one of which only becomes placeable once a later item
// completes the floor beneath it. previousUnfitted must track the capacity
// rejection, not just search failures, or the second equal-shape item gets
// pruned on a stale comparison instead of being searched.
func TestCluster_PreviousUnfittedTracksEveryUnfitBranch(t *testing.T) {
	spec := model.BinSpec{
		Width:            10,
		Depth:            10,
		Height:           10,
		MaxWeight:        25,
		GravityStrength:  100,
		SortMethod:       model.SortVolume,
		PackingDirection: model.PackingBottomUp,
	}

	mk := func(handle int, w, d, h, weight float64) *item {
		return newItem(handle, model.ItemSpec{
			ItemConsKey:      "grp",
			Width:            w,
			Depth:            d,
			Height:           h,
			Weight:           weight,
			Quantity:         1,
			AllowedRotations: "0",
		})
	}

	floorA := mk(0, 5, 10, 2, 10) // placed first, half the floor
	tallA := mk(1, 10, 5, 3, 5)   // fails: only half-supported until floorB lands
	floorB := mk(2, 5, 10, 2, 10) // completes the floor
	heavy := mk(3, 1, 1, 1, 100)  // different shape, rejected on weight budget
	tallB := mk(4, 10, 5, 3, 5)   // equal shape to tallA, must still be searched

	counter := 0
	c := newCluster(spec, &counter)
	c.pack([]*item{floorA, tallA, floorB, heavy, tallB})

	require.NotEmpty(t, c.bins)
	placed := map[int]bool{}
	for _, it := range c.bins[0].items {
		placed[it.handle] = true
	}

	assert.True(t, placed[0], "floorA should place directly")
	assert.True(t, placed[2], "floorB should place once the width anchor opens")
	assert.False(t, placed[1], "tallA fails before the floor is complete")
	assert.False(t, placed[3], "heavy exceeds the weight budget")
	assert.True(t, placed[4], "tallB must be re-searched despite matching tallA's shape, since the item unfitted immediately before it was heavy")
}
