// Package engine implements the deterministic 3D container-loading packer:
// a kd-tree-indexed, single-threaded search over axis-aligned rotations and
// free-extension anchor points, grouped by consolidation key and gravity
// constrained. A Packer call never mutates shared state with any other
// call, so independent calls may run concurrently; a single call is itself
// strictly single-threaded and its placements are bit-identical across
// repeated runs on the same input (an item submitted without an id is given
// a freshly generated one on each call, so only its ItemID differs).
package engine

import (
	"strings"

	"github.com/moschd/binstow/internal/model"
)

// Packer is the top-level entry point.
type Packer struct{}

// NewPacker returns a ready-to-use Packer. It holds no state between calls.
func NewPacker() *Packer {
	return &Packer{}
}

// Pack runs one complete packing request to completion and returns the
// wire-level result. It never returns an error: an unpackable request is
// reported through PackResult.Exception and an empty Bins/RequiredNrOfBins,
// with every submitted item in UnfittedItems.
func (p *Packer) Pack(req model.PackRequest) model.PackResult {
	spec := req.Bin
	spec.SortMethod = model.SortMethod(strings.ToUpper(string(spec.SortMethod)))
	spec.PackingDirection = model.PackingDirection(strings.ToUpper(string(spec.PackingDirection)))
	if spec.SortMethod == "" {
		spec.SortMethod = model.SortVolume
	}
	if spec.PackingDirection == "" {
		spec.PackingDirection = model.PackingBottomUp
	}

	reg := newItemRegistry(req.Items)
	order := reg.orderedHandles(spec.SortMethod)

	binIDCounter := 0
	var allBins []*bin
	var unfitted []*item

	start := 0
	for start < len(order) {
		end := start + 1
		key := reg.items[order[start]].spec.ItemConsKey
		for end < len(order) && reg.items[order[end]].spec.ItemConsKey == key {
			end++
		}

		runItems := make([]*item, 0, end-start)
		for _, idx := range order[start:end] {
			runItems = append(runItems, reg.items[idx])
		}

		// NrOfAvailableBins caps the bins of the whole request, so each
		// cluster only gets what earlier clusters left over.
		runSpec := spec
		if spec.NrOfAvailableBins > 0 {
			left := spec.NrOfAvailableBins - len(allBins)
			if left <= 0 {
				unfitted = append(unfitted, runItems...)
				start = end
				continue
			}
			runSpec.NrOfAvailableBins = left
		}

		cl := newCluster(runSpec, &binIDCounter)
		cl.pack(runItems)

		allBins = append(allBins, cl.bins...)
		unfitted = append(unfitted, cl.unfittedItems...)

		start = end
	}

	return summarize(allBins, unfitted, len(req.Items) > 0)
}

// summarize builds the wire-level result. Total volume/weight utilisation
// is the average of each bin's own utilisation percentage, not a
// volume-weighted aggregate across bins: a half-full small bin and a
// half-full large bin both count as "50%" toward the total.
func summarize(bins []*bin, unfitted []*item, hadItems bool) model.PackResult {
	result := model.PackResult{
		RequiredNrOfBins: len(bins),
	}

	if len(bins) > 0 {
		var volSum, weightSum float64
		for _, b := range bins {
			result.Bins = append(result.Bins, b.toResult())
			volSum += b.volumeUtilPct()
			weightSum += b.weightUtilPct()
		}
		result.TotalVolumeUtil = volSum / float64(len(bins))
		result.TotalWeightUtil = weightSum / float64(len(bins))
	}

	for _, it := range unfitted {
		result.UnfittedItems = append(result.UnfittedItems, it.spec)
	}

	if hadItems && len(bins) == 0 {
		result.Exception = "no items could be placed into any bin"
	}

	return result
}
