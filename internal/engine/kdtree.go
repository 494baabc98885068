package engine

import "math"

// kdNode is one arena slot: either an internal split node (left/right index
// into the same arena) or a leaf holding the item handles that fell into
// its region. Using a contiguous slice instead of heap-allocated pointer
// nodes avoids manual teardown and keeps sibling nodes cache-local.
type kdNode struct {
	axis        int // 0=width, 1=depth, 2=height; meaningless on a leaf
	splitValue  float64
	left, right int // arena indices; -1 on a leaf
	handles     []int
}

// kdTree is a fixed-depth, statically partitioned spatial index over item
// furthest-corner positions within one bin. It answers "which already-placed
// items might intersect this candidate box" as an over-approximation: every
// true intersection is returned, but the result may also contain items that
// do not actually intersect, and callers must always re-check with the
// exact geometry predicates.
type kdTree struct {
	arena []kdNode
	depth int
}

// depthForCount implements D = ceil(sqrt(N/125)) + 1, clamped to at least 1.
func depthForCount(n int) int {
	d := int(math.Ceil(math.Sqrt(float64(n)/125.0))) + 1
	if d < 1 {
		d = 1
	}
	return d
}

// newKdTree builds a complete, empty binary tree of the given depth over the
// bin's own extent, splitting each level in half along axis = depth%3. The
// partition point at every node is an absolute coordinate in the bin's
// frame: the component on the just-split axis is the midpoint of the
// node's own region on that axis, and the other two components are
// inherited unchanged from the parent, per the over-approximating query in
// queryCandidates.
func newKdTree(binWidth, binDepth, binHeight float64, estimatedItemCount int) *kdTree {
	t := &kdTree{depth: depthForCount(estimatedItemCount)}
	t.arena = make([]kdNode, 0, (1<<uint(t.depth+1))-1)
	lo := [3]float64{0, 0, 0}
	extent := [3]float64{binWidth, binDepth, binHeight}
	t.build(0, lo, extent)
	return t
}

// build recursively appends nodes to the arena, returning the index of the
// node it created. lo is the absolute per-axis lower bound of this node's
// region; extent is the per-axis size of this node's region.
func (t *kdTree) build(depth int, lo, extent [3]float64) int {
	idx := len(t.arena)
	t.arena = append(t.arena, kdNode{left: -1, right: -1})

	if depth >= t.depth {
		return idx
	}

	axis := depth % 3
	half := extent[axis] / 2
	t.arena[idx].axis = axis
	t.arena[idx].splitValue = lo[axis] + half // absolute coordinate

	leftLo := lo
	leftExtent := extent
	leftExtent[axis] = half

	rightLo := lo
	rightLo[axis] = lo[axis] + half
	rightExtent := extent
	rightExtent[axis] = extent[axis] - half

	left := t.build(depth+1, leftLo, leftExtent)
	right := t.build(depth+1, rightLo, rightExtent)
	t.arena[idx].left = left
	t.arena[idx].right = right
	return idx
}

// isLeaf reports whether node idx is a leaf.
func (t *kdTree) isLeaf(idx int) bool {
	return t.arena[idx].left == -1 && t.arena[idx].right == -1
}

// insert files an item's handle at the root and descends using the item's
// furthest-corner position, same key used by the original bin's kd-tree
// insertion.
func (t *kdTree) insert(handle int, furthest point3) {
	t.insertAt(0, handle, [3]float64{furthest.x, furthest.y, furthest.z}, 0)
}

func (t *kdTree) insertAt(idx int, handle int, pos [3]float64, depth int) {
	if t.isLeaf(idx) {
		t.arena[idx].handles = append(t.arena[idx].handles, handle)
		return
	}
	node := &t.arena[idx]
	if pos[node.axis] < node.splitValue {
		t.insertAt(node.left, handle, pos, depth+1)
	} else {
		t.insertAt(node.right, handle, pos, depth+1)
	}
}

// queryCandidates returns a superset of the item handles whose region could
// intersect the given search box (specified as [lo,hi) extents per axis in
// the same coordinate space used by insert). Any node whose split range is
// straddled by the box is descended on both sides.
func (t *kdTree) queryCandidates(loX, hiX, loY, hiY, loZ, hiZ float64) []int {
	lo := [3]float64{loX, loY, loZ}
	hi := [3]float64{hiX, hiY, hiZ}
	var out []int
	t.collect(0, lo, hi, &out)
	return out
}

func (t *kdTree) collect(idx int, lo, hi [3]float64, out *[]int) {
	if t.isLeaf(idx) {
		*out = append(*out, t.arena[idx].handles...)
		return
	}
	node := &t.arena[idx]
	if lo[node.axis] < node.splitValue {
		t.collect(node.left, lo, hi, out)
	}
	if hi[node.axis] >= node.splitValue {
		t.collect(node.right, lo, hi, out)
	}
}
