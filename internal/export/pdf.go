// Package export renders a packing result to various output formats: PDF
// manifests, QR-coded item labels, XLSX workbooks and DXF floor plans.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/moschd/binstow/internal/model"
)

// itemColors is the fill palette for item rectangles and legend swatches on
// the PDF bin pages.
var itemColors = []struct{ R, G, B int }{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF manifest of a packing result. Each bin is
// rendered on its own page as a top-down (X/Y) floor-plan diagram with
// items coloured in ascending Z order (placement order among equal Z) and
// annotated with their Z-height
// range, followed by a summary page with overall statistics.
func ExportPDF(path string, result model.PackResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, b := range result.Bins {
		pdf.AddPage()
		renderBinPage(pdf, b, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderBinPage draws a single bin's floor plan on the current PDF page.
func renderBinPage(pdf *fpdf.Fpdf, b model.BinResult, binNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	label := b.Type
	if label == "" {
		label = b.ID
	}
	title := fmt.Sprintf("Bin %d: %s", binNum, label)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Volume: %.0f%% | Weight: %.0f%% (%.0f / %.0f)",
		b.ItemCount, b.ActualVolumeUtil, b.ActualWeightUtil, b.ActualWeight, b.MaxWeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	binW, binD := binFootprint(b)

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/binW, drawHeight/binD)
	canvasW := binW * scale
	canvasD := binD * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(230, 230, 230)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasD, "FD")

	items := sortedByZ(b.Items)
	for i, p := range items {
		col := itemColors[i%len(itemColors)]
		pw := p.Width * scale
		pd := p.Depth * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, pd, "FD")

		if pw > 15 && pd > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, pd))
			pdf.SetTextColor(0, 0, 0)

			idLabel := p.ItemID
			zLabel := fmt.Sprintf("z%.0f-%.0f", p.Z, p.Z+p.Height)

			idW := pdf.GetStringWidth(idLabel)
			zW := pdf.GetStringWidth(zLabel)

			if idW < pw-2 {
				pdf.SetXY(px+(pw-idW)/2, py+pd/2-4)
				pdf.CellFormat(idW, 4, idLabel, "", 0, "C", false, 0, "")
			}
			if pd > 14 && zW < pw-2 {
				pdf.SetXY(px+(pw-zW)/2, py+pd/2)
				pdf.CellFormat(zW, 4, zLabel, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, binW, binD, scale, offsetX, offsetY, canvasW, canvasD)
	drawItemsLegend(pdf, items, offsetY+canvasD+5)
}

// binFootprint returns a bin's width/depth for the floor-plan projection.
// PackResult does not carry the bin's own width/depth directly (only
// volume), so the footprint is derived from the maximum placed extents,
// falling back to a square whose side is the cube root of MaxVolume (or 1
// when that is not positive) when the bin holds no items.
func binFootprint(b model.BinResult) (width, depth float64) {
	for _, p := range b.Items {
		if p.X+p.Width > width {
			width = p.X + p.Width
		}
		if p.Y+p.Depth > depth {
			depth = p.Y + p.Depth
		}
	}
	if width == 0 || depth == 0 {
		side := math.Cbrt(b.MaxVolume)
		if side <= 0 {
			side = 1
		}
		width, depth = side, side
	}
	return width, depth
}

// sortedByZ returns placements ordered by their Z position ascending, so
// floor-level items are drawn (and thus outlined) before items stacked atop
// them, and the legend reads bottom-to-top.
func sortedByZ(placements []model.Placement) []model.Placement {
	out := make([]model.Placement, len(placements))
	copy(out, placements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// drawDimensionAnnotations adds width and depth dimension labels outside the
// bin rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, depth, scale, offsetX, offsetY, canvasW, canvasD float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasD+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.0f", depth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasD/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasD/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawItemsLegend renders a compact legend of placed items at the bottom of
// the bin page.
func drawItemsLegend(pdf *fpdf.Fpdf, items []model.Placement, startY float64) {
	if len(items) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range items {
		col := itemColors[i%len(itemColors)]
		label := fmt.Sprintf("%s (%.0fx%.0fx%.0f) %s", p.ItemID, p.Width, p.Depth, p.Height, p.RotationDesc)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct{ label, value string }{
		{"Bins Required", fmt.Sprintf("%d", result.RequiredNrOfBins)},
		{"Average Volume Utilisation", fmt.Sprintf("%.1f%%", result.TotalVolumeUtil)},
		{"Average Weight Utilisation", fmt.Sprintf("%.1f%%", result.TotalWeightUtil)},
		{"Total Items Placed", fmt.Sprintf("%d", countItems(result))},
		{"Unfitted Items", fmt.Sprintf("%d", len(result.UnfittedItems))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(70, 6, it.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, it.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Bin Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 50, 30, 50, 50, 55}
	headers := []string{"Bin", "Type", "Items", "Volume Util", "Weight Util", "Weight"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, b := range result.Bins {
		xPos = marginLeft
		binType := b.Type
		if binType == "" {
			binType = "-"
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			binType,
			fmt.Sprintf("%d", b.ItemCount),
			fmt.Sprintf("%.1f%%", b.ActualVolumeUtil),
			fmt.Sprintf("%.1f%%", b.ActualWeightUtil),
			fmt.Sprintf("%.0f / %.0f", b.ActualWeight, b.MaxWeight),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(result.UnfittedItems) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unfitted Items", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, it := range result.UnfittedItems {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %.0f x %.0f x %.0f (qty: %d, key: %s)", it.ID, it.Width, it.Depth, it.Height, it.Quantity, it.ItemConsKey)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	if result.Exception != "" {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, result.Exception, "", 0, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by binstow - 3D Container Loading Packer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countItems returns the total number of placed items across all bins.
func countItems(result model.PackResult) int {
	total := 0
	for _, b := range result.Bins {
		total += b.ItemCount
	}
	return total
}
