package engine

import "testing"

func TestKdTree_InsertedItemIsFoundByQuery(t *testing.T) {
	tree := newKdTree(100, 100, 100, 50)
	tree.insert(0, point3{5, 5, 5})

	candidates := tree.queryCandidates(0, 10, 0, 10, 0, 10)
	found := false
	for _, h := range candidates {
		if h == 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("a query box covering the insertion point must return it as a candidate")
	}
}

func TestKdTree_QueryOutsideRegionReturnsNoCandidates(t *testing.T) {
	tree := newKdTree(100, 100, 100, 50)
	tree.insert(0, point3{90, 90, 90})

	candidates := tree.queryCandidates(0, 5, 0, 5, 0, 5)
	for _, h := range candidates {
		if h == 0 {
			t.Fatal("an item far outside the query box should not be returned")
		}
	}
}

// TestKdTree_DeepTreeReSplitsAxisCorrectly exercises a tree deep enough that
// an axis is split a second time (depth >= 4): the second split's partition
// point must still be an absolute bin coordinate, not one computed relative
// to an already-narrowed region.
func TestKdTree_DeepTreeReSplitsAxisCorrectly(t *testing.T) {
	tree := newKdTree(100, 100, 100, 2000)
	if tree.depth < 4 {
		t.Fatalf("test assumes a tree deep enough to re-split an axis, got depth %d", tree.depth)
	}

	tree.insert(0, point3{99, 99, 99})

	candidates := tree.queryCandidates(90, 100, 90, 100, 90, 100)
	found := false
	for _, h := range candidates {
		if h == 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("an item near the far corner must still be found by a query box covering it in a deep tree")
	}

	miss := tree.queryCandidates(0, 5, 0, 5, 0, 5)
	for _, h := range miss {
		if h == 0 {
			t.Fatal("an item near the far corner must not be returned by a query box at the opposite corner")
		}
	}
}

func TestDepthForCount_GrowsWithItemCount(t *testing.T) {
	small := depthForCount(10)
	large := depthForCount(10000)
	if large <= small {
		t.Fatalf("depth should grow with item count: depth(10)=%d depth(10000)=%d", small, large)
	}
}
