package engine

import (
	"sort"

	"github.com/moschd/binstow/internal/model"
)

// itemRegistry expands every ItemSpec's quantity into individual items, then
// produces the final packing order: a global sort by consolidation key
// (ascending, string compare), split into contiguous same-key runs, each run
// internally sorted by the requested sort method.
//
// This mirrors the original's split-then-sort approach rather than a
// map-based grouping: grouping falls out of the sort itself, so items that
// share a consolidation key are guaranteed to be adjacent without a second
// data structure.
type itemRegistry struct {
	items []*item
}

func newItemRegistry(specs []model.ItemSpec) *itemRegistry {
	reg := &itemRegistry{}
	handle := 0
	for _, spec := range specs {
		s := spec.WithDefaults()
		for q := 0; q < s.Quantity; q++ {
			reg.items = append(reg.items, newItem(handle, s))
			handle++
		}
	}
	return reg
}

// orderedHandles returns item indices (into reg.items) in final packing
// order for the given sort method. OPTIMIZED uses the same ordering as
// VOLUME; its distinguishing behaviour (the homogeneous layer hint) is
// applied later by the cluster driver, not by this ordering step.
func (reg *itemRegistry) orderedHandles(method model.SortMethod) []int {
	idx := make([]int, len(reg.items))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := reg.items[idx[a]].spec.ItemConsKey, reg.items[idx[b]].spec.ItemConsKey
		return ka < kb
	})

	// Split into contiguous consolidation-key runs, sort each run in place.
	n := len(idx)
	start := 0
	for start < n {
		end := start + 1
		key := reg.items[idx[start]].spec.ItemConsKey
		for end < n && reg.items[idx[end]].spec.ItemConsKey == key {
			end++
		}
		run := idx[start:end]
		sortRun(reg.items, run, method)
		start = end
	}
	return idx
}

func sortRun(items []*item, run []int, method model.SortMethod) {
	switch method {
	case model.SortWeight:
		sort.SliceStable(run, func(a, b int) bool {
			ia, ib := items[run[a]], items[run[b]]
			if ia.weight() != ib.weight() {
				return ia.weight() > ib.weight()
			}
			return ia.volume() > ib.volume()
		})
	default: // SortVolume, SortOptimized
		sort.SliceStable(run, func(a, b int) bool {
			ia, ib := items[run[a]], items[run[b]]
			if ia.volume() != ib.volume() {
				return ia.volume() > ib.volume()
			}
			return ia.weight() > ib.weight()
		})
	}
}
