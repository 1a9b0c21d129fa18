package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel renders a session report as a workbook with Summary, Details
// and, for manifest sessions, Missing sheets.
func GenerateExcel(data *SessionReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, data, headerStyle); err != nil {
		return nil, err
	}
	if err := writeDetailsSheet(f, data, headerStyle); err != nil {
		return nil, err
	}
	if len(data.Missing) > 0 {
		if err := writeMissingSheet(f, data, headerStyle); err != nil {
			return nil, err
		}
	}

	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, data *SessionReport, headerStyle int) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	ended := "still active"
	if data.Session.EndedAt != nil {
		ended = data.Session.EndedAt.Format(time.RFC3339)
	}

	rows := [][]interface{}{
		{"Scan Session Report", ""},
		{"Session", data.Session.ID},
		{"Mode", data.Session.Mode},
		{"Category", data.Session.Category},
		{"BOM", data.Session.BOMName},
		{"Operator", data.Session.Operator},
		{"Started", data.Session.StartedAt.Format(time.RFC3339)},
		{"Ended", ended},
		{},
		{"Total scans", data.Stats.TotalRecords},
		{"Match", data.Stats.MatchCount},
		{"Over", data.Stats.OverCount},
		{"Under", data.Stats.UnderCount},
		{"Missing", data.Stats.MissingCount},
	}
	if data.Stats.BOMItemsCount > 0 {
		rows = append(rows,
			[]interface{}{"BOM items", data.Stats.BOMItemsCount},
			[]interface{}{"Completion %", data.Stats.CompletionPct},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "B", 28)
}

func writeDetailsSheet(f *excelize.File, data *SessionReport, headerStyle int) error {
	const sheet = "Details"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"SAP Article", "Part Number", "Description", "Quantity", "Expected", "Difference", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return err
	}

	for i, rec := range data.Records {
		expected := interface{}(nil)
		difference := interface{}(nil)
		if rec.Expected != nil {
			expected = *rec.Expected
			difference = rec.difference()
		}
		row := []interface{}{
			rec.SAPArticle, rec.PartNumber, rec.Description,
			rec.Quantity, expected, difference, rec.Status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "C", 24)
}

func writeMissingSheet(f *excelize.File, data *SessionReport, headerStyle int) error {
	const sheet = "Missing"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"SAP Article", "Part Number", "Description", "Expected"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return err
	}

	for i, row := range data.Missing {
		values := []interface{}{row.SAPArticle, row.PartNumber, row.Description, row.Expected}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "C", 24)
}

// InventoryLine is one grouped row of a plain counting export.
type InventoryLine struct {
	SAPArticle    string
	PartNumber    string
	Description   string
	Category      string
	TotalQuantity float64
	ScanCount     int64
}

// GenerateInventoryExcel renders an INVENTORY session's grouped totals as a
// single-sheet workbook.
func GenerateInventoryExcel(session SessionInfo, lines []InventoryLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}

	info := []interface{}{"Session", session.ID, "Started", session.StartedAt.Format(time.RFC3339)}
	if err := f.SetSheetRow(sheet, "A1", &info); err != nil {
		return nil, err
	}

	header := []interface{}{"SAP Article", "Part Number", "Description", "Category", "Total Quantity", "Scans"}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A3", "F3", headerStyle); err != nil {
		return nil, err
	}

	for i, line := range lines {
		row := []interface{}{
			line.SAPArticle, line.PartNumber, line.Description,
			line.Category, line.TotalQuantity, line.ScanCount,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "D", 24); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
