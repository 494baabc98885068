package export

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/moschd/binstow/internal/model"
)

// buildTestResult creates a realistic packing result for testing.
func buildTestResult() model.PackResult {
	return model.PackResult{
		RequiredNrOfBins: 2,
		TotalVolumeUtil:  62.5,
		TotalWeightUtil:  40.0,
		Bins: []model.BinResult{
			{
				ID: "bin-1", Type: "20ft-standard", ItemCount: 3,
				MaxVolume: 2000000, ActualVolume: 1250000, ActualVolumeUtil: 62.5,
				MaxWeight: 1000, ActualWeight: 400, ActualWeightUtil: 40.0,
				Items: []model.Placement{
					{ItemID: "p1", ItemConsKey: "k1", X: 0, Y: 0, Z: 0, Width: 600, Depth: 400, Height: 300, Weight: 100, Rotation: model.RotationWDH, RotationDesc: model.RotationWDH.Description()},
					{ItemID: "p2", ItemConsKey: "k1", X: 600, Y: 0, Z: 0, Width: 500, Depth: 300, Height: 300, Weight: 150, Rotation: model.RotationWDH, RotationDesc: model.RotationWDH.Description()},
					{ItemID: "p3", ItemConsKey: "k1", X: 0, Y: 400, Z: 0, Width: 400, Depth: 300, Height: 300, Weight: 150, Rotation: model.RotationDWH, RotationDesc: model.RotationDWH.Description()},
				},
			},
			{
				ID: "bin-2", Type: "20ft-standard", ItemCount: 1,
				MaxVolume: 2000000, ActualVolume: 800000, ActualVolumeUtil: 40.0,
				MaxWeight: 1000, ActualWeight: 400, ActualWeightUtil: 40.0,
				Items: []model.Placement{
					{ItemID: "p4", ItemConsKey: "k1", X: 0, Y: 0, Z: 0, Width: 800, Depth: 500, Height: 200, Weight: 400, Rotation: model.RotationWDH, RotationDesc: model.RotationWDH.Description()},
				},
			},
		},
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_output.pdf")

	result := buildTestResult()

	err := ExportPDF(path, result)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	result := model.PackResult{Bins: nil}

	err := ExportPDF(path, result)
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportPDF_WithUnfittedItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unfitted.pdf")

	result := buildTestResult()
	result.UnfittedItems = []model.ItemSpec{
		{ID: "u1", ItemConsKey: "k2", Width: 3000, Depth: 2000, Height: 2000, Quantity: 1},
		{ID: "u2", ItemConsKey: "k2", Width: 1500, Depth: 1500, Height: 1500, Quantity: 2},
	}

	err := ExportPDF(path, result)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportPDF_WithException(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exception.pdf")

	result := buildTestResult()
	result.Exception = "none of the items could be packed"

	err := ExportPDF(path, result)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportPDF_SingleBin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "single.pdf")

	result := model.PackResult{
		RequiredNrOfBins: 1,
		Bins: []model.BinResult{
			{
				ID: "bin-1", ItemCount: 1,
				MaxVolume: 1000000, ActualVolume: 8000000, ActualVolumeUtil: 100,
				MaxWeight: 100, ActualWeight: 50, ActualWeightUtil: 50,
				Items: []model.Placement{
					{ItemID: "p1", X: 0, Y: 0, Z: 0, Width: 200, Depth: 200, Height: 200, Weight: 50, Rotation: model.RotationWDH, RotationDesc: model.RotationWDH.Description()},
				},
			},
		},
	}

	err := ExportPDF(path, result)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportPDF_ManyItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_items.pdf")

	// Generate more items than colors to test color cycling.
	items := make([]model.Placement, 20)
	for i := range items {
		items[i] = model.Placement{
			ItemID: fmt.Sprintf("p%d", i),
			Width:  100, Depth: 80, Height: 50,
			Weight:       10,
			X:            float64((i % 5) * 110),
			Y:            float64((i / 5) * 90),
			Z:            0,
			Rotation:     model.RotationWDH,
			RotationDesc: model.RotationWDH.Description(),
		}
	}

	result := model.PackResult{
		RequiredNrOfBins: 1,
		Bins: []model.BinResult{
			{ID: "bin-1", ItemCount: len(items), MaxVolume: 2400000, ActualVolume: 800000, ActualVolumeUtil: 33.3, MaxWeight: 500, ActualWeight: 200, ActualWeightUtil: 40, Items: items},
		},
	}

	err := ExportPDF(path, result)
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestCountItems(t *testing.T) {
	result := buildTestResult()
	got := countItems(result)
	if got != 4 {
		t.Errorf("countItems() = %d, want 4", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 15, 6},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestBinFootprint(t *testing.T) {
	b := model.BinResult{
		Items: []model.Placement{
			{X: 0, Y: 0, Width: 500, Depth: 300},
			{X: 500, Y: 0, Width: 400, Depth: 600},
		},
	}
	w, d := binFootprint(b)
	if w != 900 || d != 600 {
		t.Errorf("binFootprint() = (%v, %v), want (900, 600)", w, d)
	}
}

func TestBinFootprint_Empty(t *testing.T) {
	b := model.BinResult{MaxVolume: 1000}
	w, d := binFootprint(b)
	if w <= 0 || d <= 0 {
		t.Errorf("binFootprint() on empty bin should derive a positive footprint, got (%v, %v)", w, d)
	}
}

func TestSortedByZ(t *testing.T) {
	in := []model.Placement{
		{ItemID: "top", Z: 10},
		{ItemID: "bottom", Z: 0},
		{ItemID: "mid", Z: 5},
	}
	out := sortedByZ(in)
	if out[0].ItemID != "bottom" || out[1].ItemID != "mid" || out[2].ItemID != "top" {
		t.Errorf("sortedByZ did not order by Z ascending: %+v", out)
	}
	// original slice must be untouched
	if in[0].ItemID != "top" {
		t.Error("sortedByZ mutated its input")
	}
}
