// Package importer provides JSON request parsing and CSV/Excel import for
// item lists. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/moschd/binstow/internal/model"
)

// ImportResult holds the results of an item-list import operation.
type ImportResult struct {
	Items    []model.ItemSpec
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ConsKey          int
	Width            int
	Depth            int
	Height           int
	Weight           int
	Quantity         int
	AllowedRotations int
}

// headerAliases maps canonical column names to their accepted aliases (all
// lowercase).
var headerAliases = map[string][]string{
	"conskey":   {"conskey", "itemconskey", "key", "group", "consolidation key"},
	"width":     {"width", "w", "x"},
	"depth":     {"depth", "d", "length", "len", "y"},
	"height":    {"height", "h", "z"},
	"weight":    {"weight", "kg", "mass"},
	"quantity":  {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"rotations": {"rotations", "allowedrotations", "allowed rotations", "rot"},
}

// DetectCSVDelimiter reads the file content and determines the most likely
// CSV delimiter. It tries comma, semicolon, tab, and pipe. The delimiter
// that produces the most consistent (non-one) column count across lines
// wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. It
// performs case-insensitive matching against known aliases for each column
// role. Returns the mapping and true if a header was detected, or a default
// positional mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		ConsKey: -1, Width: -1, Depth: -1, Height: -1, Weight: -1,
		Quantity: -1, AllowedRotations: -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "conskey":
					setIfUnset(&mapping.ConsKey, i)
				case "width":
					setIfUnset(&mapping.Width, i)
				case "depth":
					setIfUnset(&mapping.Depth, i)
				case "height":
					setIfUnset(&mapping.Height, i)
				case "weight":
					setIfUnset(&mapping.Weight, i)
				case "quantity":
					setIfUnset(&mapping.Quantity, i)
				case "rotations":
					setIfUnset(&mapping.AllowedRotations, i)
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			ConsKey: 0, Width: 1, Depth: 2, Height: 3, Weight: 4,
			Quantity: 5, AllowedRotations: -1,
		}, false
	}

	return mapping, true
}

func setIfUnset(field *int, i int) {
	if *field == -1 {
		*field = i
	}
}

// getCell safely retrieves a cell value from a row by column index. Returns
// empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts an ItemSpec from a row using the given column mapping.
// Returns the item, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (model.ItemSpec, string, string) {
	consKey := getCell(row, mapping.ConsKey)
	if consKey == "" {
		consKey = fmt.Sprintf("item-%d", itemCount+1)
	}

	width, errMsg := parseDimension(row, mapping.Width, "width", rowLabel)
	if errMsg != "" {
		return model.ItemSpec{}, errMsg, ""
	}
	depth, errMsg := parseDimension(row, mapping.Depth, "depth", rowLabel)
	if errMsg != "" {
		return model.ItemSpec{}, errMsg, ""
	}
	height, errMsg := parseDimension(row, mapping.Height, "height", rowLabel)
	if errMsg != "" {
		return model.ItemSpec{}, errMsg, ""
	}

	weight := 0.0
	if weightStr := getCell(row, mapping.Weight); weightStr != "" {
		w, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return model.ItemSpec{}, fmt.Sprintf("%s: invalid weight %q", rowLabel, weightStr), ""
		}
		weight = w
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		q, err := strconv.Atoi(qtyStr)
		if err != nil {
			return model.ItemSpec{}, fmt.Sprintf("%s: invalid quantity %q", rowLabel, qtyStr), ""
		}
		qty = q
	}

	if width <= 0 || depth <= 0 || height <= 0 || qty <= 0 {
		return model.ItemSpec{}, fmt.Sprintf("%s: width, depth, height and quantity must be positive", rowLabel), ""
	}

	spec := model.ItemSpec{
		ItemConsKey: consKey,
		Width:       width,
		Depth:       depth,
		Height:      height,
		Weight:      weight,
		Quantity:    qty,
	}

	var warning string
	if rotStr := getCell(row, mapping.AllowedRotations); rotStr != "" {
		if isValidRotationString(rotStr) {
			spec.AllowedRotations = rotStr
		} else {
			warning = fmt.Sprintf("%s: unrecognised allowedRotations %q, defaulting to all", rowLabel, rotStr)
		}
	}

	return spec, "", warning
}

func parseDimension(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: invalid %s %q", rowLabel, name, s)
	}
	return v, ""
}

func isValidRotationString(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '5' {
			return false
		}
	}
	return true
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportItemsCSV imports items from a CSV file, automatically detecting the
// delimiter and mapping columns by header names.
func ImportItemsCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportItemsCSVFromReader imports items from a CSV reader with a specific
// delimiter, useful for testing or when the delimiter is already known.
func ImportItemsCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"file is empty"}}
	}
	return importFromRows(records, "Line", nil)
}

// ImportItemsXLSX imports items from an Excel (.xlsx) file's first sheet.
func ImportItemsXLSX(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "detected header row, skipping")

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "width")
		}
		if mapping.Depth == -1 {
			missing = append(missing, "depth")
		}
		if mapping.Height == -1 {
			missing = append(missing, "height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		item, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Items))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Items = append(result.Items, item)
	}

	return result
}

// ParseRequest decodes a full packing request from JSON. sortMethod and
// packingDirection are accepted case-insensitively, as the wire contract
// requires, and normalised to their canonical upper-case form. An item with
// a non-positive dimension or a rotation digit outside 0-5 is rejected.
func ParseRequest(r io.Reader) (model.PackRequest, error) {
	var req model.PackRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return model.PackRequest{}, fmt.Errorf("decode pack request: %w", err)
	}
	for i, it := range req.Items {
		if it.Width <= 0 || it.Depth <= 0 || it.Height <= 0 {
			return model.PackRequest{}, fmt.Errorf("item %d: width, depth and height must be positive", i+1)
		}
		if it.AllowedRotations != "" && !isValidRotationString(it.AllowedRotations) {
			return model.PackRequest{}, fmt.Errorf("item %d: invalid allowedRotations %q", i+1, it.AllowedRotations)
		}
	}
	req.Bin.SortMethod = model.SortMethod(strings.ToUpper(string(req.Bin.SortMethod)))
	req.Bin.PackingDirection = model.PackingDirection(strings.ToUpper(string(req.Bin.PackingDirection)))
	return req, nil
}
