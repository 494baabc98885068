package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/moschd/binstow/internal/model"
)

func TestExportJSON_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")

	result := buildTestResult()
	if err := ExportJSON(path, result); err != nil {
		t.Fatalf("ExportJSON returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read exported JSON: %v", err)
	}

	var decoded model.PackResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("could not decode exported JSON: %v", err)
	}

	if decoded.RequiredNrOfBins != result.RequiredNrOfBins {
		t.Errorf("RequiredNrOfBins = %d, want %d", decoded.RequiredNrOfBins, result.RequiredNrOfBins)
	}
	if len(decoded.Bins) != len(result.Bins) {
		t.Fatalf("Bins length = %d, want %d", len(decoded.Bins), len(result.Bins))
	}
	if len(decoded.Bins[0].Items) != len(result.Bins[0].Items) {
		t.Errorf("bin 0 item count = %d, want %d", len(decoded.Bins[0].Items), len(result.Bins[0].Items))
	}
}

func TestExportJSON_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")

	if err := ExportJSON(path, model.PackResult{Exception: "none of the items could be packed"}); err != nil {
		t.Fatalf("ExportJSON returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read exported JSON: %v", err)
	}
	var decoded model.PackResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("could not decode exported JSON: %v", err)
	}
	if decoded.Exception == "" {
		t.Error("expected exception to round-trip")
	}
}
