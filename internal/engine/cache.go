package engine

// intersectionCache is a per-bin negative memo: for a position that a prior
// placement attempt already proved blocked, it remembers the smallest
// "blocking distance" seen there. If a later item's smallest dimension is at
// least that distance, no rotation of it can possibly fit at that position
// either, so the position search can skip straight past it.
//
// The key is compared for exact (bit-pattern) equality, never with an
// epsilon tolerance — two placement attempts land on the identical position
// only when they are, in fact, the same candidate anchor point.
type intersectionCache struct {
	limits map[point3]float64
}

func newIntersectionCache() *intersectionCache {
	return &intersectionCache{limits: make(map[point3]float64)}
}

// addIntersection records that an item attempted at tryingPos collided with
// an already-placed item, keeping the smaller of any existing and new
// blocking distance.
func (c *intersectionCache) addIntersection(tryingPos point3, trying, placed box3) {
	d := nearestBoundary(trying, placed)
	if existing, ok := c.limits[tryingPos]; !ok || d < existing {
		c.limits[tryingPos] = d
	}
}

// hit reports whether a candidate at pos is already known to be blocked for
// an item of the given smallest dimension.
func (c *intersectionCache) hit(pos point3, smallestDim float64) bool {
	d, ok := c.limits[pos]
	return ok && smallestDim >= d
}
