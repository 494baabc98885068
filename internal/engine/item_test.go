package engine

import (
	"testing"

	"github.com/moschd/binstow/internal/model"
)

func TestItem_RotationRoundTrip(t *testing.T) {
	it := newItem(0, model.ItemSpec{Width: 3, Depth: 4, Height: 5, AllowedRotations: model.AllRotationCodes})

	for r := model.RotationWDH; r <= model.RotationHWD; r++ {
		it.rotate(r)
		w, d, h := it.box.width, it.box.depth, it.box.height
		// The multiset of dimensions must be preserved under any rotation.
		got := []float64{w, d, h}
		want := []float64{3, 4, 5}
		if !sameMultiset(got, want) {
			t.Fatalf("rotation %d: got dims %v, want permutation of %v", r, got, want)
		}
	}

	it.rotate(model.RotationWDH)
	if it.box.width != 3 || it.box.depth != 4 || it.box.height != 5 {
		t.Fatal("rotating back to WDH must restore original dimensions exactly")
	}
}

func TestItem_ResetReturnsToOriginAndWDH(t *testing.T) {
	it := newItem(0, model.ItemSpec{Width: 3, Depth: 4, Height: 5, AllowedRotations: model.AllRotationCodes})
	it.rotate(model.RotationHWD)
	it.box.pos = point3{7, 7, 7}

	it.reset()

	if it.box.pos != startPosition {
		t.Fatalf("reset should return to start position, got %v", it.box.pos)
	}
	if it.box.width != 3 || it.box.depth != 4 || it.box.height != 5 {
		t.Fatal("reset should return to WDH dimensions")
	}
}

func TestItem_EqualShapeRequiresSameDimsWeightAndRotations(t *testing.T) {
	a := newItem(0, model.ItemSpec{Width: 1, Depth: 2, Height: 3, Weight: 4, AllowedRotations: "012345"})
	b := newItem(1, model.ItemSpec{Width: 1, Depth: 2, Height: 3, Weight: 4, AllowedRotations: "012345"})
	c := newItem(2, model.ItemSpec{Width: 1, Depth: 2, Height: 3, Weight: 5, AllowedRotations: "012345"})

	if !a.equalShape(b) {
		t.Fatal("identical items should be equal in shape")
	}
	if a.equalShape(c) {
		t.Fatal("items differing in weight should not be equal in shape")
	}
}

func sameMultiset(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, av := range a {
		found := false
		for i, bv := range b {
			if !used[i] && av == bv {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
