package engine

import (
	"sort"
	"strconv"

	"github.com/moschd/binstow/internal/model"
)

type axis int

const (
	axisWidth axis = iota
	axisDepth
	axisHeight
)

// bin is one opened container: its own free-extension lists, spatial index
// and intersection cache, all scoped to this bin alone.
type bin struct {
	id      string
	binType string
	width   float64
	depth   float64
	height  float64

	maxWeight       float64
	gravityEnabled  bool
	gravityStrength int

	axisOrder [3]axis

	items []*item // placed items, in placement order

	actualVolume float64
	actualWeight float64

	placedMaxW, placedMaxD, placedMaxH float64

	xFree, yFree, zFree []*item

	tree  *kdTree
	cache *intersectionCache
}

func newBin(id string, spec model.BinSpec, estimatedItemCount int) *bin {
	return &bin{
		id:              id,
		binType:         spec.Type,
		width:           spec.Width,
		depth:           spec.Depth,
		height:          spec.Height,
		maxWeight:       spec.MaxWeight,
		gravityEnabled:  spec.GravityStrength > 0,
		gravityStrength: spec.GravityStrength,
		axisOrder:       axisOrderFor(spec.PackingDirection),
		tree:            newKdTree(spec.Width, spec.Depth, spec.Height, estimatedItemCount),
		cache:           newIntersectionCache(),
	}
}

// axisOrderFor translates the wire-level packing direction into the axis
// iteration order searchPositionAndPlaceItem walks. BOTTOMUP is the default
// W, D, H order; BACKTOFRONT swaps the last two to W, H, D.
func axisOrderFor(dir model.PackingDirection) [3]axis {
	if dir == model.PackingBackToFront {
		return [3]axis{axisWidth, axisHeight, axisDepth}
	}
	return [3]axis{axisWidth, axisDepth, axisHeight}
}

func (b *bin) isEmpty() bool {
	return len(b.items) == 0
}

func (b *bin) maxVolume() float64 {
	return b.width * b.depth * b.height
}

// wouldExceedCapacity reports whether placing it would push the bin over its
// volume or weight budget. This check is against the CURRENT bin only, not
// a cumulative cluster-wide budget.
func (b *bin) wouldExceedCapacity(it *item) bool {
	if b.actualVolume+it.volume() > b.maxVolume() {
		return true
	}
	if b.maxWeight > 0 && b.actualWeight+it.weight() > b.maxWeight {
		return true
	}
	return false
}

// tryPlace attempts to place it into the bin, searching free-extension
// anchors on each axis if the bin already holds items, or trying the origin
// directly if it is still empty.
func (b *bin) tryPlace(it *item) bool {
	if b.isEmpty() {
		it.box.pos = startPosition
		if b.placeItemInBin(it) {
			b.updateWithNewFittedItem(it)
			return true
		}
		return false
	}
	return b.searchPositionAndPlaceItem(it)
}

// searchPositionAndPlaceItem walks each axis's free-extension list in turn,
// trying the trying item flush against each anchor's far face on that axis.
// The first axis/anchor combination that yields an acceptable placement
// wins; axes are tried in the bin's axisOrder (WIDTH, DEPTH, HEIGHT unless
// the bin's packing direction is BACKTOFRONT, which swaps the last two).
func (b *bin) searchPositionAndPlaceItem(it *item) bool {
	for _, ax := range b.axisOrder {
		anchors := b.freeListFor(ax)
		// Snapshot: placements made during this loop must not perturb the
		// list we are currently iterating.
		snapshot := make([]*item, len(anchors))
		copy(snapshot, anchors)

		for _, ref := range snapshot {
			it.box.pos = ref.box.pos
			switch ax {
			case axisWidth:
				it.box.pos.x = ref.box.furthest().x
			case axisDepth:
				it.box.pos.y = ref.box.furthest().y
			case axisHeight:
				it.box.pos.z = ref.box.furthest().z
			}

			if b.cache.hit(it.box.pos, it.smallestDim) {
				continue
			}

			if b.placeItemInBin(it) {
				b.updateWithNewFittedItem(it)
				return true
			}
		}
	}
	return false
}

func (b *bin) freeListFor(ax axis) []*item {
	switch ax {
	case axisWidth:
		return b.xFree
	case axisDepth:
		return b.yFree
	default:
		return b.zFree
	}
}

// placeItemInBin tries every rotation allowed for it, in the declared
// order of its allowedRotations string, at its current box.pos. The first
// rotation that fits within the bin bounds, does not intersect any
// already-placed item, and satisfies gravity is accepted and left in place;
// if none do, the item is reset to its default orientation and position.
func (b *bin) placeItemInBin(it *item) bool {
	for _, c := range it.allowedRotations {
		code, err := strconv.Atoi(string(c))
		if err != nil || code < 0 || code > 5 {
			continue
		}
		r := model.RotationMode(code)
		it.rotate(r)

		if it.box.pos.x+it.box.width > b.width ||
			it.box.pos.y+it.box.depth > b.depth ||
			it.box.pos.z+it.box.height > b.height {
			continue
		}

		if b.intersectsAnyPlaced(it) {
			continue
		}

		if gravityEnabled(b.gravityEnabled, it.spec.GravityStrength) {
			required := activeGravityStrength(it.spec.GravityStrength, b.gravityStrength)
			if !obeysGravity(it.box, b.placedBoxes(), required) {
				continue
			}
		}

		return true
	}
	it.reset()
	return false
}

// intersectsAnyPlaced queries the kd-tree for a superset of candidates that
// might overlap it, then re-checks each candidate with exact geometry. A
// matched candidate's blocking distance is recorded in the cache.
func (b *bin) intersectsAnyPlaced(it *item) bool {
	loX := it.box.pos.x - b.placedMaxW
	hiX := it.box.furthest().x + b.placedMaxW
	loY := it.box.pos.y - b.placedMaxD
	hiY := it.box.furthest().y + b.placedMaxD
	loZ := it.box.pos.z - b.placedMaxH
	hiZ := it.box.furthest().z + b.placedMaxH

	for _, idx := range b.tree.queryCandidates(loX, hiX, loY, hiY, loZ, hiZ) {
		placed := b.items[idx]
		if intersectXY(it.box, placed.box) && intersectZ(it.box, placed.box) {
			b.cache.addIntersection(it.box.pos, it.box, placed.box)
			return true
		}
	}
	return false
}

func (b *bin) placedBoxes() []box3 {
	boxes := make([]box3, len(b.items))
	for i, p := range b.items {
		boxes[i] = p.box
	}
	return boxes
}

// updateWithNewFittedItem commits an accepted placement: records it in the
// items list and spatial index, updates running totals and the
// placed-max-dimension tracker used to size intersection queries, and
// prunes each free-extension list of anchors the new item now occludes.
func (b *bin) updateWithNewFittedItem(it *item) {
	localIdx := len(b.items)
	it.placed = true
	b.items = append(b.items, it)

	b.actualVolume += it.volume()
	b.actualWeight += it.weight()

	if it.box.width > b.placedMaxW {
		b.placedMaxW = it.box.width
	}
	if it.box.depth > b.placedMaxD {
		b.placedMaxD = it.box.depth
	}
	if it.box.height > b.placedMaxH {
		b.placedMaxH = it.box.height
	}

	f := it.box.furthest()
	b.tree.insert(localIdx, f)

	b.insertZFreeSorted(it)
	b.xFree = append(b.xFree, it)
	b.yFree = append(b.yFree, it)

	b.pruneFreeList(axisWidth, it)
	b.pruneFreeList(axisDepth, it)
	b.pruneFreeList(axisHeight, it)
}

// insertZFreeSorted keeps zFree sorted ascending by furthest point height,
// matching the original's upper_bound insertion, so the height-axis anchor
// search in searchPositionAndPlaceItem tries the lowest tops first.
func (b *bin) insertZFreeSorted(it *item) {
	h := it.box.furthest().z
	i := sort.Search(len(b.zFree), func(i int) bool {
		return b.zFree[i].box.furthest().z > h
	})
	b.zFree = append(b.zFree, nil)
	copy(b.zFree[i+1:], b.zFree[i:])
	b.zFree[i] = it
}

// pruneFreeList removes anchors from the named axis's free list that the
// newly placed item now occludes: an anchor old is removed when new sits
// exactly at old's furthest point on this axis and strictly intersects it
// on the other two axes.
func (b *bin) pruneFreeList(ax axis, newItem *item) {
	var list *[]*item
	switch ax {
	case axisWidth:
		list = &b.xFree
	case axisDepth:
		list = &b.yFree
	default:
		list = &b.zFree
	}

	kept := (*list)[:0:0]
	for _, old := range *list {
		if old == newItem {
			kept = append(kept, old)
			continue
		}
		occluded := false
		switch ax {
		case axisWidth:
			occluded = newItem.box.pos.x == old.box.furthest().x &&
				intersectY(newItem.box, old.box) && intersectZ(newItem.box, old.box)
		case axisDepth:
			occluded = newItem.box.pos.y == old.box.furthest().y &&
				intersectX(newItem.box, old.box) && intersectZ(newItem.box, old.box)
		default:
			occluded = newItem.box.pos.z == old.box.furthest().z &&
				intersectX(newItem.box, old.box) && intersectY(newItem.box, old.box)
		}
		if !occluded {
			kept = append(kept, old)
		}
	}
	*list = kept
}

func (b *bin) volumeUtilPct() float64 {
	if b.maxVolume() == 0 {
		return 0
	}
	return (b.actualVolume / b.maxVolume()) * 100
}

func (b *bin) weightUtilPct() float64 {
	if b.maxWeight == 0 {
		return 0
	}
	return (b.actualWeight / b.maxWeight) * 100
}

func (b *bin) toResult() model.BinResult {
	placements := make([]model.Placement, len(b.items))
	for i, it := range b.items {
		placements[i] = it.toPlacement()
	}
	return model.BinResult{
		ID:               b.id,
		Type:             b.binType,
		ItemCount:        len(b.items),
		MaxVolume:        b.maxVolume(),
		ActualVolume:     b.actualVolume,
		ActualVolumeUtil: b.volumeUtilPct(),
		MaxWeight:        b.maxWeight,
		ActualWeight:     b.actualWeight,
		ActualWeightUtil: b.weightUtilPct(),
		Items:            placements,
	}
}
