// Package export renders annotation reports.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/kplabel/kplabel/pkg/analysis"
	"github.com/kplabel/kplabel/pkg/geometry"
)

// Report describes one annotated image for the PDF renderer.
type Report struct {
	ImageName   string
	ImageWidth  int
	ImageHeight int
	Points      []geometry.Point
}

// WritePDF renders the report as a single-page PDF: summary statistics, a
// scaled plot of the keypoint polyline and the full coordinate table.
func WritePDF(w io.Writer, r Report) error {
	stats := analysis.AnalyzeKeypoints(r.Points)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Keypoint Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Keypoint Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Image: %s (%d x %d px)", r.ImageName, r.ImageWidth, r.ImageHeight), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	writeStats(pdf, stats)
	pdf.Ln(5)
	writePlot(pdf, r)
	pdf.Ln(5)
	writeCoordinateTable(pdf, r.Points)

	return pdf.Output(w)
}

// WritePDFFile renders the report to a file.
func WritePDFFile(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()
	if err := WritePDF(f, r); err != nil {
		return fmt.Errorf("render report %s: %w", path, err)
	}
	return nil
}

func writeStats(pdf *gofpdf.Fpdf, stats *analysis.KeypointResult) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	row := func(label, value string) {
		pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}
	row("Points", fmt.Sprintf("%d", stats.PointCount))
	if stats.PointCount == 0 {
		return
	}
	row("Centroid", fmt.Sprintf("(%.1f, %.1f)", stats.Centroid.X, stats.Centroid.Y))
	w, h := stats.BoundingSize()
	row("Bounding box", fmt.Sprintf("%s .. %s (%d x %d px)",
		analysis.FormatPoint(stats.BoundingMin), analysis.FormatPoint(stats.BoundingMax), w, h))
	if len(stats.Segments) > 0 {
		row("Path length", analysis.FormatLength(stats.TotalPathLength))
		row("Segment min/avg/max", fmt.Sprintf("%s / %s / %s",
			analysis.FormatLength(stats.MinSegmentLength),
			analysis.FormatLength(stats.AvgSegmentLength),
			analysis.FormatLength(stats.MaxSegmentLength)))
	}
}

// writePlot draws the keypoint polyline scaled into a fixed frame, markers
// numbered in sequence order.
func writePlot(pdf *gofpdf.Fpdf, r Report) {
	const frameW, frameH = 120.0, 80.0
	if r.ImageWidth <= 0 || r.ImageHeight <= 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Plot", "", 1, "L", false, 0, "")

	x0, y0 := pdf.GetX(), pdf.GetY()
	scale := frameW / float64(r.ImageWidth)
	if s := frameH / float64(r.ImageHeight); s < scale {
		scale = s
	}
	plotW := float64(r.ImageWidth) * scale
	plotH := float64(r.ImageHeight) * scale

	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(x0, y0, plotW, plotH, "D")

	toPlot := func(p geometry.Point) (float64, float64) {
		return x0 + float64(p.X)*scale, y0 + float64(p.Y)*scale
	}

	pdf.SetDrawColor(200, 40, 40)
	for i := 1; i < len(r.Points); i++ {
		ax, ay := toPlot(r.Points[i-1])
		bx, by := toPlot(r.Points[i])
		pdf.Line(ax, ay, bx, by)
	}

	pdf.SetFillColor(200, 40, 40)
	pdf.SetFont("Helvetica", "", 6)
	for i, p := range r.Points {
		px, py := toPlot(p)
		pdf.Circle(px, py, 0.8, "F")
		pdf.Text(px+1.2, py-0.8, fmt.Sprintf("%d", i+1))
	}

	pdf.SetY(y0 + plotH + 2)
	pdf.SetDrawColor(0, 0, 0)
}

func writeCoordinateTable(pdf *gofpdf.Fpdf, points []geometry.Point) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Coordinates", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(15, 6, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "X", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Y", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, p := range points {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", p.X), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", p.Y), "1", 1, "R", false, 0, "")
	}
}
