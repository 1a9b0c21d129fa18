package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	pdfMarginLeft = 10.0
	pdfLineHeight = 6.0
)

// GeneratePDF renders a session report as an A4 PDF: header, executive
// summary, discrepancies, missing items, and the full record list, with a QR
// code carrying the session id on the first page.
func GeneratePDF(data *SessionReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	writeHeader(pdf, data)
	writeSummary(pdf, data)
	writeQR(pdf, data.Session.ID)

	if rows := data.Discrepancies(); len(rows) > 0 {
		writeSection(pdf, "Discrepancies")
		writeRecordTable(pdf, rows, true)
	}
	if len(data.Missing) > 0 {
		writeSection(pdf, "Missing Items")
		writeMissingTable(pdf, data.Missing)
	}
	if len(data.Records) > 0 {
		writeSection(pdf, "All Scanned Items")
		writeRecordTable(pdf, data.Records, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, data *SessionReport) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Scan Session Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	line := func(label, value string) {
		pdf.CellFormat(35, pdfLineHeight, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, pdfLineHeight, value, "", 1, "L", false, 0, "")
	}
	line("Session:", data.Session.ID)
	line("Mode:", data.Session.Mode)
	if data.Session.Category != "" {
		line("Category:", data.Session.Category)
	}
	if data.Session.BOMName != "" {
		line("BOM:", data.Session.BOMName)
	}
	line("Operator:", data.Session.Operator)
	line("Started:", data.Session.StartedAt.Format(time.RFC3339))
	if data.Session.EndedAt != nil {
		line("Ended:", data.Session.EndedAt.Format(time.RFC3339))
	} else {
		line("Ended:", "still active")
	}
	pdf.Ln(4)
}

func writeSummary(pdf *gofpdf.Fpdf, data *SessionReport) {
	writeSection(pdf, "Summary")
	pdf.SetFont("Helvetica", "", 10)

	stats := data.Stats
	rows := [][2]string{
		{"Total scans", fmt.Sprintf("%d", stats.TotalRecords)},
		{"Match", fmt.Sprintf("%d", stats.MatchCount)},
		{"Over", fmt.Sprintf("%d", stats.OverCount)},
		{"Under", fmt.Sprintf("%d", stats.UnderCount)},
		{"Missing", fmt.Sprintf("%d", stats.MissingCount)},
	}
	if stats.BOMItemsCount > 0 {
		rows = append(rows,
			[2]string{"BOM items", fmt.Sprintf("%d", stats.BOMItemsCount)},
			[2]string{"Completion", fmt.Sprintf("%.1f%%", stats.CompletionPct)},
		)
	}
	for _, row := range rows {
		pdf.CellFormat(35, pdfLineHeight, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, pdfLineHeight, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// writeQR stamps a QR code with the session id in the top-right corner of the
// first page, for pairing a printed report back to the live session.
func writeQR(pdf *gofpdf.Fpdf, sessionID string) {
	png, err := qrcode.Encode(sessionID, qrcode.Medium, 256)
	if err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("session-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("session-qr", 170, 10, 28, 28, false, opts, 0, "")
}

func writeSection(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func writeRecordTable(pdf *gofpdf.Fpdf, rows []RecordRow, withDifference bool) {
	widths := []float64{32, 30, 62, 18, 18, 30}
	headers := []string{"SAP Article", "Part No", "Description", "Qty", "Exp", "Status"}
	if withDifference {
		widths = []float64{32, 30, 50, 16, 16, 16, 30}
		headers = []string{"SAP Article", "Part No", "Description", "Qty", "Exp", "Diff", "Status"}
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], pdfLineHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		expected := "-"
		if row.Expected != nil {
			expected = fmt.Sprintf("%.1f", *row.Expected)
		}
		cells := []string{
			row.SAPArticle,
			row.PartNumber,
			truncate(row.Description, 40),
			fmt.Sprintf("%.1f", row.Quantity),
			expected,
		}
		if withDifference {
			cells = append(cells, fmt.Sprintf("%+.1f", row.difference()))
		}
		cells = append(cells, row.Status)

		for i, cell := range cells {
			pdf.CellFormat(widths[i], pdfLineHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writeMissingTable(pdf *gofpdf.Fpdf, rows []MissingRow) {
	widths := []float64{35, 35, 90, 30}
	headers := []string{"SAP Article", "Part No", "Description", "Expected"}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], pdfLineHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		cells := []string{
			row.SAPArticle,
			row.PartNumber,
			truncate(row.Description, 60),
			fmt.Sprintf("%.1f", row.Expected),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], pdfLineHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
