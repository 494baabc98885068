package export

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/yofu/dxf"

	"github.com/moschd/binstow/internal/model"
)

// zBandLayerName returns the DXF layer name for a given Z-height band index,
// used to separate placements at different stack heights visually.
func zBandLayerName(bandIndex int) string {
	return fmt.Sprintf("Z-BAND-%02d", bandIndex)
}

// ExportFloorPlanDXF writes one top-down floor-plan DXF file per bin into
// dir, named "<binID>.dxf". Each placed item is drawn as a closed
// rectangle (LWPOLYLINE) in the X/Y plane on a layer named for the
// distinct Z-height band its bottom face sits on, so a CAD viewer can
// toggle stack levels independently. Returns the list of written file
// paths in bin order.
func ExportFloorPlanDXF(dir string, result model.PackResult) ([]string, error) {
	if len(result.Bins) == 0 {
		return nil, fmt.Errorf("no bins to export")
	}

	var written []string
	for _, b := range result.Bins {
		path := filepath.Join(dir, fmt.Sprintf("%s.dxf", b.ID))
		if err := writeBinFloorPlan(path, b); err != nil {
			return written, fmt.Errorf("bin %s: %w", b.ID, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// writeBinFloorPlan renders one bin's placements to a single DXF file.
func writeBinFloorPlan(path string, b model.BinResult) error {
	d := dxf.NewDrawing()

	for _, band := range zBands(b.Items) {
		layer := zBandLayerName(band)
		if err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer %s: %w", layer, err)
		}
	}

	bandOf := zBandIndex(b.Items)

	for i, p := range b.Items {
		d.ChangeLayer(zBandLayerName(bandOf[i]))

		x0, y0 := p.X, p.Y
		x1, y1 := p.X+p.Width, p.Y+p.Depth

		if _, err := d.LwPolyline(true,
			[]float64{x0, y0},
			[]float64{x1, y0},
			[]float64{x1, y1},
			[]float64{x0, y1},
		); err != nil {
			return fmt.Errorf("draw item %s: %w", p.ItemID, err)
		}

		labelX := x0 + (x1-x0)/2
		labelY := y0 + (y1-y0)/2
		labelHeight := minDim(p.Width, p.Depth) / 8
		if labelHeight <= 0 {
			labelHeight = 1
		}
		if _, err := d.Text(p.ItemID, labelX, labelY, 0, labelHeight); err != nil {
			return fmt.Errorf("label item %s: %w", p.ItemID, err)
		}
	}

	binW, binD := binFootprint(b)
	if err := d.AddLayer("BIN-OUTLINE", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add bin outline layer: %w", err)
	}
	d.ChangeLayer("BIN-OUTLINE")
	if _, err := d.LwPolyline(true,
		[]float64{0, 0},
		[]float64{binW, 0},
		[]float64{binW, binD},
		[]float64{0, binD},
	); err != nil {
		return fmt.Errorf("draw bin outline: %w", err)
	}

	return d.SaveAs(path)
}

// zBands returns one band index (0, 1, ...) per distinct Z-height at which
// items sit, used to create one DXF layer per stack level.
func zBands(items []model.Placement) []int {
	seen := map[float64]bool{}
	var zs []float64
	for _, p := range items {
		if !seen[p.Z] {
			seen[p.Z] = true
			zs = append(zs, p.Z)
		}
	}
	sort.Float64s(zs)
	bands := make([]int, len(zs))
	for i := range zs {
		bands[i] = i
	}
	return bands
}

// zBandIndex maps each placement to its band index, aligned with zBands'
// ordering (lowest Z = band 0).
func zBandIndex(items []model.Placement) []int {
	seen := map[float64]bool{}
	var zs []float64
	for _, p := range items {
		if !seen[p.Z] {
			seen[p.Z] = true
			zs = append(zs, p.Z)
		}
	}
	sort.Float64s(zs)
	bandOf := make(map[float64]int, len(zs))
	for i, z := range zs {
		bandOf[z] = i
	}

	out := make([]int, len(items))
	for i, p := range items {
		out[i] = bandOf[p.Z]
	}
	return out
}

func minDim(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
