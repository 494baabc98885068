package engine

// layerhint.go implements the homogeneous layer pre-solve: when a
// consolidation-key group contains many items sharing the same footprint,
// it is often better to lay out one full 2D layer at a time than to let the
// general 3D search place them one anchor at a time. This runs once per
// distinct shape, entirely in 2D over the bin's width x depth footprint, and
// the winning layout is replayed as real placements at an incrementing Z
// offset.

type rect2 struct {
	x, y, w, h float64
}

func (r rect2) area() float64 { return r.w * r.h }

// layerResult is one attempted 2D layout: the accepted placements plus the
// total area they cover (used to break ties between variants on placed
// count).
type layerResult struct {
	placements []rect2
	usedArea   float64
}

// homogeneousLayer tries all five named 2D heuristics for packing up to
// maxCount copies of a w x h footprint into a binW x binD area, and returns
// the variant that places the most items (ties broken by used-area).
func homogeneousLayer(binW, binD, w, h float64, maxCount int) layerResult {
	variants := []func(float64, float64, float64, float64, int) layerResult{
		layerBestAreaFit,
		layerBestShortSideFit,
		layerBestLongSideFit,
		layerContactPoint,
		layerNeatRow,
	}

	var best layerResult
	for _, v := range variants {
		r := v(binW, binD, w, h, maxCount)
		if len(r.placements) > len(best.placements) ||
			(len(r.placements) == len(best.placements) && r.usedArea > best.usedArea) {
			best = r
		}
	}
	return best
}

// maxRectsPack is the shared MaxRects driver: maintains a free-rectangle
// list, repeatedly scores every free rectangle with the given scorer and
// places the next item in the best one, splitting around the placement and
// pruning any free rectangle that became wholly contained in another.
// Stops at the first failed placement, matching the layer hint's
// "stop at first failed layer" rule.
func maxRectsPack(binW, binD, w, h float64, maxCount int, better func(a, b float64) bool, score func(fr rect2, w, h float64) (float64, bool)) layerResult {
	free := []rect2{{0, 0, binW, binD}}
	var result layerResult

	for i := 0; i < maxCount; i++ {
		bestIdx := -1
		var bestScore float64
		for i, fr := range free {
			if fr.w < w || fr.h < h {
				continue
			}
			s, ok := score(fr, w, h)
			if !ok {
				continue
			}
			if bestIdx == -1 || better(s, bestScore) {
				bestIdx = i
				bestScore = s
			}
		}
		if bestIdx == -1 {
			break
		}

		chosen := free[bestIdx]
		placed := rect2{chosen.x, chosen.y, w, h}
		result.placements = append(result.placements, placed)
		result.usedArea += placed.area()

		free = splitAroundPlacement(free, placed)
		free = pruneContainedRects(free)
	}
	return result
}

func layerBestAreaFit(binW, binD, w, h float64, maxCount int) layerResult {
	return maxRectsPack(binW, binD, w, h, maxCount, less, func(fr rect2, w, h float64) (float64, bool) {
		return fr.area() - w*h, true
	})
}

func layerBestShortSideFit(binW, binD, w, h float64, maxCount int) layerResult {
	return maxRectsPack(binW, binD, w, h, maxCount, less, func(fr rect2, w, h float64) (float64, bool) {
		leftoverW := fr.w - w
		leftoverH := fr.h - h
		return minF(leftoverW, leftoverH), true
	})
}

func layerBestLongSideFit(binW, binD, w, h float64, maxCount int) layerResult {
	return maxRectsPack(binW, binD, w, h, maxCount, less, func(fr rect2, w, h float64) (float64, bool) {
		leftoverW := fr.w - w
		leftoverH := fr.h - h
		return maxF(leftoverW, leftoverH), true
	})
}

// layerContactPoint favours placements that share the most perimeter with
// the bin boundary; higher score wins (more contact is better). Contact with
// rectangles already placed in the layer is not counted.
func layerContactPoint(binW, binD, w, h float64, maxCount int) layerResult {
	return maxRectsPack(binW, binD, w, h, maxCount, greater, func(fr rect2, w, h float64) (float64, bool) {
		contact := 0.0
		if fr.x == 0 || fr.x+w == binW {
			contact += h
		}
		if fr.y == 0 || fr.y+h == binD {
			contact += w
		}
		return contact, true
	})
}

// layerNeatRow is a simple shelf packer: fill left-to-right until a row is
// full, then start a new row above it. No MaxRects splitting is needed
// since every item shares the same footprint.
func layerNeatRow(binW, binD, w, h float64, maxCount int) layerResult {
	var result layerResult
	x, y := 0.0, 0.0
	for i := 0; i < maxCount; i++ {
		if x+w > binW {
			x = 0
			y += h
		}
		if y+h > binD {
			break
		}
		result.placements = append(result.placements, rect2{x, y, w, h})
		result.usedArea += w * h
		x += w
	}
	return result
}

func less(a, b float64) bool    { return a < b }
func greater(a, b float64) bool { return a > b }
func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// splitAroundPlacement splits every free rectangle that overlaps placed
// into up to four smaller free rectangles along its non-overlapping
// remainder, the maximal-rectangles approach (as opposed to pure
// guillotine splitting, which would discard usable space).
func splitAroundPlacement(free []rect2, placed rect2) []rect2 {
	var out []rect2
	for _, fr := range free {
		if !rectsOverlap(fr, placed) {
			out = append(out, fr)
			continue
		}
		if placed.x > fr.x {
			out = append(out, rect2{fr.x, fr.y, placed.x - fr.x, fr.h})
		}
		if placed.x+placed.w < fr.x+fr.w {
			out = append(out, rect2{placed.x + placed.w, fr.y, fr.x + fr.w - (placed.x + placed.w), fr.h})
		}
		if placed.y > fr.y {
			out = append(out, rect2{fr.x, fr.y, fr.w, placed.y - fr.y})
		}
		if placed.y+placed.h < fr.y+fr.h {
			out = append(out, rect2{fr.x, placed.y + placed.h, fr.w, fr.y + fr.h - (placed.y + placed.h)})
		}
	}
	return out
}

func rectsOverlap(a, b rect2) bool {
	return a.x < b.x+b.w && b.x < a.x+a.w && a.y < b.y+b.h && b.y < a.y+a.h
}

func containsRect(outer, inner rect2) bool {
	return inner.x >= outer.x && inner.y >= outer.y &&
		inner.x+inner.w <= outer.x+outer.w && inner.y+inner.h <= outer.y+outer.h
}

// pruneContainedRects drops any free rectangle that is wholly contained in
// another, which MaxRects splitting otherwise accumulates over time.
func pruneContainedRects(free []rect2) []rect2 {
	var out []rect2
	for i, fr := range free {
		contained := false
		for j, other := range free {
			if i == j {
				continue
			}
			if containsRect(other, fr) && !containsRect(fr, other) {
				contained = true
				break
			}
			if containsRect(other, fr) && containsRect(fr, other) && j < i {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, fr)
		}
	}
	return out
}
