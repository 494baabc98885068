package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/moschd/binstow/internal/model"
)

// ExportJSON writes the wire-format packing result to path, pretty printed
// for human inspection.
func ExportJSON(path string, result model.PackResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pack result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write pack result: %w", err)
	}
	return nil
}
