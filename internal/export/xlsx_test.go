package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/moschd/binstow/internal/model"
)

func TestExportXLSX_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.xlsx")

	result := buildTestResult()
	if err := ExportXLSX(path, result); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("xlsx file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("xlsx file is empty")
	}
}

func TestExportXLSX_SheetsAndContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.xlsx")

	result := buildTestResult()
	if err := ExportXLSX(path, result); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("could not reopen xlsx: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1+len(result.Bins) {
		t.Fatalf("expected %d sheets, got %d: %v", 1+len(result.Bins), len(sheets), sheets)
	}

	found := false
	for _, s := range sheets {
		if s == "Summary" {
			found = true
		}
	}
	if !found {
		t.Error("expected a Summary sheet")
	}

	binSheet := binSheetName(0, result.Bins[0])
	rows, err := f.GetRows(binSheet)
	if err != nil {
		t.Fatalf("could not read bin sheet %q: %v", binSheet, err)
	}
	// header + 3 items
	if len(rows) != 1+len(result.Bins[0].Items) {
		t.Errorf("expected %d rows in %q, got %d", 1+len(result.Bins[0].Items), binSheet, len(rows))
	}
}

func TestExportXLSX_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.xlsx")

	err := ExportXLSX(path, model.PackResult{})
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportXLSX_WithUnfittedItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unfitted.xlsx")

	result := buildTestResult()
	result.UnfittedItems = []model.ItemSpec{
		{ID: "u1", ItemConsKey: "k2", Width: 3000, Depth: 2000, Height: 2000, Quantity: 1},
	}

	if err := ExportXLSX(path, result); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}
}

func TestBinSheetName_Truncates(t *testing.T) {
	b := model.BinResult{Type: "a-very-long-bin-type-name-that-exceeds-limits"}
	name := binSheetName(0, b)
	if len(name) > 31 {
		t.Errorf("sheet name %q exceeds Excel's 31-char limit", name)
	}
}
