package engine

import (
	"github.com/moschd/binstow/internal/model"
)

// startPosition is where every item begins life before it is placed or
// after it is reset following a failed rotation trial.
var startPosition = point3{0, 0, 0}

// item is the engine-internal geometric representation of one unit to be
// packed. Multiple items share the same handle-to-spec relationship via
// itemRegistry; an item here is one concrete instance (quantity already
// expanded).
type item struct {
	handle           int
	spec             model.ItemSpec
	origWidth        float64
	origDepth        float64
	origHeight       float64
	box              box3
	rotation         model.RotationMode
	allowedRotations string
	smallestDim      float64
	placed           bool
}

func newItem(handle int, spec model.ItemSpec) *item {
	it := &item{
		handle:           handle,
		spec:             spec,
		origWidth:        spec.Width,
		origDepth:        spec.Depth,
		origHeight:       spec.Height,
		allowedRotations: spec.AllowedRotations,
		box:              box3{pos: startPosition, width: spec.Width, depth: spec.Depth, height: spec.Height},
	}
	if it.allowedRotations == "" {
		it.allowedRotations = model.AllRotationCodes
	}
	it.smallestDim = minOf3(spec.Width, spec.Depth, spec.Height)
	return it
}

func minOf3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// setDimensionsForRotation permutes the item's original width/depth/height
// into the box dimensions appropriate for the given rotation code. This is
// the exact six-way permutation used by the wire contract's rotation table.
func (it *item) setDimensionsForRotation(r model.RotationMode) {
	w, d, h := it.origWidth, it.origDepth, it.origHeight
	switch r {
	case model.RotationWDH:
		it.box.width, it.box.depth, it.box.height = w, d, h
	case model.RotationDWH:
		it.box.width, it.box.depth, it.box.height = d, w, h
	case model.RotationHDW:
		it.box.width, it.box.depth, it.box.height = h, d, w
	case model.RotationDHW:
		it.box.width, it.box.depth, it.box.height = d, h, w
	case model.RotationWHD:
		it.box.width, it.box.depth, it.box.height = w, h, d
	case model.RotationHWD:
		it.box.width, it.box.depth, it.box.height = h, w, d
	}
}

// rotate applies a rotation at the item's current position.
func (it *item) rotate(r model.RotationMode) {
	it.rotation = r
	it.setDimensionsForRotation(r)
}

// reset returns the item to its unrotated orientation at the start
// position, as happens whenever every allowed rotation fails to place it.
func (it *item) reset() {
	it.rotation = model.RotationWDH
	it.setDimensionsForRotation(model.RotationWDH)
	it.box.pos = startPosition
	it.placed = false
}

func (it *item) volume() float64 {
	return it.origWidth * it.origDepth * it.origHeight
}

func (it *item) weight() float64 {
	return it.spec.Weight
}

// equalShape reports whether two items share dimensions, weight and allowed
// rotations — the exact predicate used by the monotone "same as previous
// unfitted item" pruning shortcut. Comparator stability (consistent
// ordering feeding consistent adjacency) is required for this shortcut to
// be sound; itemRegistry's sort guarantees it.
func (it *item) equalShape(other *item) bool {
	return it.origWidth == other.origWidth &&
		it.origDepth == other.origDepth &&
		it.origHeight == other.origHeight &&
		it.spec.Weight == other.spec.Weight &&
		it.allowedRotations == other.allowedRotations
}

// looselyEqual reports dimension-only equality, used to group items for the
// homogeneous layer hint regardless of weight or rotation differences.
func (it *item) looselyEqual(other *item) bool {
	return it.origWidth == other.origWidth &&
		it.origDepth == other.origDepth &&
		it.origHeight == other.origHeight
}

func (it *item) toPlacement() model.Placement {
	return model.Placement{
		ItemID:       it.spec.ID,
		ItemConsKey:  it.spec.ItemConsKey,
		X:            it.box.pos.x,
		Y:            it.box.pos.y,
		Z:            it.box.pos.z,
		Width:        it.box.width,
		Depth:        it.box.depth,
		Height:       it.box.height,
		Weight:       it.spec.Weight,
		Rotation:     it.rotation,
		RotationDesc: it.rotation.Description(),
	}
}
