package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/moschd/binstow/internal/model"
)

// ExportXLSX writes a manifest workbook: one sheet per bin listing its
// placed items, plus a "Summary" sheet with per-bin utilisation and any
// unfitted items.
func ExportXLSX(path string, result model.PackResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, result); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}

	for i, b := range result.Bins {
		sheetName := binSheetName(i, b)
		if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("create sheet for bin %s: %w", b.ID, err)
		}
		if err := writeBinSheet(f, sheetName, b); err != nil {
			return fmt.Errorf("write sheet for bin %s: %w", b.ID, err)
		}
	}

	// The default "Sheet1" created by NewFile is unused once bins are
	// written; drop it so the workbook opens on the summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func binSheetName(index int, b model.BinResult) string {
	name := fmt.Sprintf("Bin %d", index+1)
	if b.Type != "" {
		name = fmt.Sprintf("Bin %d (%s)", index+1, b.Type)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func writeSummarySheet(f *excelize.File, result model.PackResult) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Bins Required", result.RequiredNrOfBins},
		{"Average Volume Utilisation %", result.TotalVolumeUtil},
		{"Average Weight Utilisation %", result.TotalWeightUtil},
		{"Unfitted Items", len(result.UnfittedItems)},
	}
	if result.Exception != "" {
		rows = append(rows, []any{"Exception", result.Exception})
	}
	for i, row := range rows {
		cellA := fmt.Sprintf("A%d", i+1)
		cellB := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(sheet, cellA, row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellB, row[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellA, cellA, headerStyle); err != nil {
			return err
		}
	}

	tableTop := len(rows) + 2
	headers := []string{"Bin ID", "Type", "Items", "Volume Util %", "Weight Util %", "Weight", "Max Weight"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, tableTop)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, b := range result.Bins {
		r := tableTop + i + 1
		values := []any{b.ID, b.Type, b.ItemCount, b.ActualVolumeUtil, b.ActualWeightUtil, b.ActualWeight, b.MaxWeight}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if len(result.UnfittedItems) > 0 {
		unfTop := tableTop + len(result.Bins) + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", unfTop), "Unfitted Items"); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", unfTop), fmt.Sprintf("A%d", unfTop), headerStyle); err != nil {
			return err
		}
		unfHeaders := []string{"Item ID", "Cons. Key", "Width", "Depth", "Height", "Weight", "Qty"}
		for col, h := range unfHeaders {
			cell, err := excelize.CoordinatesToCellName(col+1, unfTop+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		for i, it := range result.UnfittedItems {
			r := unfTop + 2 + i
			values := []any{it.ID, it.ItemConsKey, it.Width, it.Depth, it.Height, it.Weight, it.Quantity}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, r)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func writeBinSheet(f *excelize.File, sheet string, b model.BinResult) error {
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headers := []string{"Item ID", "Cons. Key", "X", "Y", "Z", "Width", "Depth", "Height", "Weight", "Rotation"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, p := range b.Items {
		r := i + 2
		values := []any{p.ItemID, p.ItemConsKey, p.X, p.Y, p.Z, p.Width, p.Depth, p.Height, p.Weight, p.RotationDesc}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return nil
}
