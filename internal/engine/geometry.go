package engine

// point3 is a plain position in bin-local coordinates.
type point3 struct {
	x, y, z float64
}

// box3 is an axis-aligned cuboid: a position plus its current (post-rotation)
// dimensions along each axis.
type box3 struct {
	pos    point3
	width  float64
	depth  float64
	height float64
}

func (b box3) furthest() point3 {
	return point3{b.pos.x + b.width, b.pos.y + b.depth, b.pos.z + b.height}
}

// intersectX/Y/Z report whether two boxes overlap on a single axis. Touching
// faces do not count as intersecting.
func intersectX(a, b box3) bool {
	return a.pos.x < b.pos.x+b.width && b.pos.x < a.pos.x+a.width
}

func intersectY(a, b box3) bool {
	return a.pos.y < b.pos.y+b.depth && b.pos.y < a.pos.y+a.depth
}

func intersectZ(a, b box3) bool {
	return a.pos.z < b.pos.z+b.height && b.pos.z < a.pos.z+a.height
}

// intersectXY reports whether two boxes' footprints overlap, ignoring Z.
func intersectXY(a, b box3) bool {
	return intersectX(a, b) && intersectY(a, b)
}

// intersects3D reports full 3D overlap.
func intersects3D(a, b box3) bool {
	return intersectX(a, b) && intersectY(a, b) && intersectZ(a, b)
}

// nearestBoundary is a non-semantic magnitude used only as an
// intersection-cache value: the smallest axis-wise difference between the
// two boxes' own positions (not their extents), a coarse "this much room is
// blocked" proxy. It is never used for intersection decisions directly, and
// it may be negative — the sign carries no meaning, only the magnitude
// matters to the cache lookup.
func nearestBoundary(trying, placed box3) float64 {
	dx := trying.pos.x - placed.pos.x
	dy := trying.pos.y - placed.pos.y
	dz := trying.pos.z - placed.pos.z
	m := dx
	if dy < m {
		m = dy
	}
	if dz < m {
		m = dz
	}
	return m
}
