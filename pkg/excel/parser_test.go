package excel

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes the given rows to the first sheet starting at startRow,
// leaving everything above empty, and returns the serialized file.
func buildWorkbook(t *testing.T, startRow int, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseBOMWithOffsetHeader(t *testing.T) {
	// Header on row 4, below two title rows, as real exports often are.
	file := buildWorkbook(t, 2, [][]interface{}{
		{"Manifest Export 2026"},
		{},
		{"SAP Article", "Part Number", "Description", "Quantity"},
		{"100200", "PN-1", "Relay", 5},
		{"100201", "PN-2", "Fuse", "2,5"},
		{"", "PN-3", "no sap, skipped", 1},
		{"100202", "PN-4", "bad qty, skipped", "n/a"},
	})

	rows, err := ParseBOM(file, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}
	if rows[0].SAPArticle != "100200" || rows[0].Quantity != 5 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	// Decimal comma is accepted.
	if rows[1].Quantity != 2.5 {
		t.Errorf("row 1 quantity = %v, want 2.5", rows[1].Quantity)
	}
}

func TestParseBOMHeaderVariants(t *testing.T) {
	file := buildWorkbook(t, 1, [][]interface{}{
		{"sap no.", "pn", "bezeichnung", "menge"},
		{"100200", "PN-1", "Relais", 3},
	})

	rows, err := ParseBOM(file, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 || rows[0].Quantity != 3 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestParseBOMCategoryFilter(t *testing.T) {
	file := buildWorkbook(t, 1, [][]interface{}{
		{"SAP Article", "Part Number", "Description", "Quantity", "Category"},
		{"100200", "PN-1", "Relay", 5, "ELEC"},
		{"100201", "PN-2", "Bracket", 2, "MECH"},
		{"100202", "PN-3", "no category kept", 1, ""},
	})

	rows, err := ParseBOM(file, "ELEC")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2 (other-category row filtered)", len(rows))
	}
	for _, row := range rows {
		if row.Category == "MECH" {
			t.Errorf("MECH row survived the filter: %+v", row)
		}
	}
}

func TestParseBOMNoHeader(t *testing.T) {
	file := buildWorkbook(t, 1, [][]interface{}{
		{"just", "random", "cells"},
		{"1", "2", "3"},
	})

	if _, err := ParseBOM(file, ""); !errors.Is(err, ErrNoHeader) {
		t.Errorf("err = %v, want ErrNoHeader", err)
	}
}

func TestParseArticles(t *testing.T) {
	file := buildWorkbook(t, 1, [][]interface{}{
		{"SAP Article", "Part Number", "Description", "Category", "Quantity"},
		{"100200", "PN-1", "Relay", "ELEC", 1},
		{"100200", "PN-1b", "Relay variant", "MECH", 1},
	})

	rows, err := ParseArticles(file)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2 (same sap, different category)", len(rows))
	}
}

func TestParseArticlesRejectsDuplicatePair(t *testing.T) {
	file := buildWorkbook(t, 1, [][]interface{}{
		{"SAP Article", "Part Number", "Description", "Category", "Quantity"},
		{"100200", "PN-1", "Relay", "ELEC", 1},
		{"100200", "PN-1", "Relay again", "ELEC", 1},
	})

	if _, err := ParseArticles(file); !errors.Is(err, ErrDuplicateRow) {
		t.Errorf("err = %v, want ErrDuplicateRow", err)
	}
}

func TestParseArticlesRequiresCategoryColumn(t *testing.T) {
	file := buildWorkbook(t, 1, [][]interface{}{
		{"SAP Article", "Part Number", "Description", "Quantity"},
		{"100200", "PN-1", "Relay", 1},
	})

	if _, err := ParseArticles(file); !errors.Is(err, ErrMissingCat) {
		t.Errorf("err = %v, want ErrMissingCat", err)
	}
}
