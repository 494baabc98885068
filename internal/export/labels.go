package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/moschd/binstow/internal/model"
)

// LabelInfo holds the data encoded into each item label's QR code.
type LabelInfo struct {
	ItemID       string  `json:"itemId"`
	Width        float64 `json:"width"`
	Depth        float64 `json:"depth"`
	Height       float64 `json:"height"`
	BinIndex     int     `json:"bin"`
	BinID        string  `json:"binId"`
	RotationDesc string  `json:"rotation"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels for all placed items.
// Each label contains the item id, dimensions, and a QR code encoding the
// item's bin and position metadata as JSON. Labels are laid out on a
// standard label sheet format (Avery 5160 / 3 columns x 10 rows on US
// Letter).
func ExportLabels(path string, result model.PackResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to generate labels for")
	}

	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no items placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ItemID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d_%d", info.ItemID, info.BinIndex, int(info.X*1000+info.Y))
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	itemID := info.ItemID
	if pdf.GetStringWidth(itemID) > textW {
		for len(itemID) > 0 && pdf.GetStringWidth(itemID+"...") > textW {
			itemID = itemID[:len(itemID)-1]
		}
		itemID += "..."
	}
	pdf.CellFormat(textW, 4.5, itemID, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f", info.Width, info.Depth, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	binInfo := fmt.Sprintf("Bin %d @ (%.0f, %.0f, %.0f)", info.BinIndex, info.X, info.Y, info.Z)
	pdf.CellFormat(textW, 3, binInfo, "", 1, "L", false, 0, "")

	if info.RotationDesc != "" && info.RotationDesc != model.RotationWDH.Description() {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, info.RotationDesc, "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from a packing result for
// use in testing or alternative export formats.
func CollectLabelInfos(result model.PackResult) []LabelInfo {
	var labels []LabelInfo
	for binIdx, b := range result.Bins {
		for _, p := range b.Items {
			labels = append(labels, LabelInfo{
				ItemID:       p.ItemID,
				Width:        p.Width,
				Depth:        p.Depth,
				Height:       p.Height,
				BinIndex:     binIdx + 1,
				BinID:        b.ID,
				RotationDesc: p.RotationDesc,
				X:            p.X,
				Y:            p.Y,
				Z:            p.Z,
			})
		}
	}
	return labels
}
