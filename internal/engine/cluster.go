package engine

import (
	"fmt"

	"github.com/moschd/binstow/internal/model"
)

// cluster packs one contiguous consolidation-key run of items into as many
// bins of the shared spec as it takes, opening bins one at a time and
// recursing on whatever a bin could not hold.
type cluster struct {
	spec          model.BinSpec
	binIDCounter  *int
	bins          []*bin
	unfittedItems []*item
}

func newCluster(spec model.BinSpec, binIDCounter *int) *cluster {
	return &cluster{spec: spec, binIDCounter: binIDCounter}
}

// estimatedCountToFit returns how many of the given (already ordered) items
// a fresh bin of this cluster's spec could hold before exhausting its
// volume budget or its weight budget, whichever comes first. This sizes the
// spatial index for the bin about to be opened; it is an estimate, not a
// guarantee, since rotation and placement failures can still leave room
// unused or force earlier unfitting.
func (c *cluster) estimatedCountToFit(items []*item) int {
	maxVol := c.spec.Width * c.spec.Depth * c.spec.Height
	var vol, weight float64
	volCount, weightCount := len(items), len(items)
	volExhausted, weightExhausted := false, false

	for i, it := range items {
		vol += it.volume()
		weight += it.weight()
		if !volExhausted && vol > maxVol {
			volCount = i
			volExhausted = true
		}
		if !weightExhausted && c.spec.MaxWeight > 0 && weight > c.spec.MaxWeight {
			weightCount = i
			weightExhausted = true
		}
		if volExhausted && weightExhausted {
			break
		}
	}
	if volCount < weightCount {
		return volCount
	}
	return weightCount
}

// pack runs the full recursive bin-opening driver over items, which must
// already be in final packing order.
func (c *cluster) pack(items []*item) {
	c.startPackingBins(items)
}

func (c *cluster) nextBinID() string {
	id := *c.binIDCounter
	*c.binIDCounter++
	return fmt.Sprintf("bin-%d", id)
}

func (c *cluster) startPackingBins(items []*item) {
	if len(items) == 0 {
		return
	}

	if c.spec.NrOfAvailableBins > 0 && len(c.bins) >= c.spec.NrOfAvailableBins {
		c.unfittedItems = append(c.unfittedItems, items...)
		return
	}

	b := newBin(c.nextBinID(), c.spec, c.estimatedCountToFit(items))

	remaining := items
	if c.spec.PackingDirection == model.PackingBottomUp && c.spec.SortMethod == model.SortOptimized {
		remaining = c.runLayerHint(b, remaining)
	}

	// previousUnfitted mirrors the bin's own unfitted-items list: it is
	// whichever item was most recently appended to unfitted, for whatever
	// reason (item limit, capacity, or a failed search), and is left
	// untouched by a successful placement in between — exactly the value
	// the original compares the next item's shape against.
	var unfitted []*item
	var previousUnfitted *item

	for _, it := range remaining {
		if c.spec.ItemLimit > 0 && len(b.items) >= c.spec.ItemLimit {
			unfitted = append(unfitted, it)
			previousUnfitted = it
			continue
		}
		if b.wouldExceedCapacity(it) {
			unfitted = append(unfitted, it)
			previousUnfitted = it
			continue
		}
		if previousUnfitted != nil && it.equalShape(previousUnfitted) {
			unfitted = append(unfitted, it)
			previousUnfitted = it
			continue
		}
		if b.tryPlace(it) {
			continue
		}
		unfitted = append(unfitted, it)
		previousUnfitted = it
	}

	if b.isEmpty() {
		// Nothing at all could be placed in a freshly opened bin: there is
		// no point opening further bins for this cluster.
		c.unfittedItems = append(c.unfittedItems, unfitted...)
		return
	}

	c.bins = append(c.bins, b)
	c.startPackingBins(unfitted)
}

// runLayerHint applies the homogeneous 2D pre-solve once to each contiguous
// run of items sharing the same dimensions, replaying the winning 2D layout
// as pinned-rotation placements layer after layer at an incrementing Z
// offset (every run's layers start from the bin floor). It returns the
// items that still need the general search (the ones the hint did not
// consume, in original order).
func (c *cluster) runLayerHint(b *bin, items []*item) []*item {
	if len(items) == 0 {
		return items
	}

	i := 0
	var remaining []*item
	for i < len(items) {
		shape := items[i]
		j := i + 1
		for j < len(items) && items[j].looselyEqual(shape) {
			j++
		}
		group := items[i:j]
		consumed := c.placeLayerGroup(b, group)
		remaining = append(remaining, group[consumed:]...)
		i = j
	}
	return remaining
}

// placeLayerGroup runs the five homogeneous-layer heuristics for one shape
// and replays the winner one layer after another, raising Z by the item's
// height between layers, until an item fails to place or the group is used
// up; it returns how many items from group it placed.
func (c *cluster) placeLayerGroup(b *bin, group []*item) int {
	if len(group) == 0 {
		return 0
	}
	shape := group[0]
	result := homogeneousLayer(b.width, b.depth, shape.origWidth, shape.origDepth, len(group))

	placed := 0
	z := 0.0
	for placed < len(group) && len(result.placements) > 0 {
		for _, r := range result.placements {
			if placed >= len(group) {
				return placed
			}
			it := group[placed]
			if !c.placeAtWithScopedRotation(b, it, r, z) {
				return placed
			}
			placed++
		}
		z += shape.origHeight
	}
	return placed
}

// placeAtWithScopedRotation pins the item's rotation to WDH (code "0") for
// the duration of this single placement attempt by temporarily prepending
// it to allowedRotations, then restores the original string unconditionally
// via defer regardless of how the attempt ends.
func (c *cluster) placeAtWithScopedRotation(b *bin, it *item, r rect2, z float64) bool {
	original := it.allowedRotations
	it.allowedRotations = "0" + original
	defer func() { it.allowedRotations = original }()

	it.box.pos = point3{r.x, r.y, z}
	if b.placeItemInBin(it) {
		b.updateWithNewFittedItem(it)
		return true
	}
	return false
}
