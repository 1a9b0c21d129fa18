package excel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoSheet      = errors.New("workbook has no sheets")
	ErrNoHeader     = errors.New("could not locate a header row")
	ErrEmptyFile    = errors.New("no data rows found")
	ErrMissingSAP   = errors.New("sap article column not found")
	ErrMissingQty   = errors.New("quantity column not found")
	ErrMissingCat   = errors.New("category column not found")
	ErrDuplicateRow = errors.New("duplicate sap_article/category pair")
)

// headerScanDepth bounds how many leading rows are searched for a header;
// uploads often carry title and metadata rows above the real table.
const headerScanDepth = 20

// Column name variants accepted per logical field, all compared lowercased
// with surrounding whitespace trimmed.
var (
	sapHeaders = []string{"sap article", "sap_article", "sap", "sap no", "sap no.", "sap number", "article", "artikel"}
	qtyHeaders = []string{"quantity", "qty", "menge", "anzahl", "count", "expected quantity", "expected_quantity"}
	partHeaders = []string{"part number", "part_number", "part no", "part no.", "partnumber", "pn", "teilenummer"}
	descHeaders = []string{"description", "desc", "bezeichnung", "beschreibung", "name"}
	catHeaders  = []string{"category", "kategorie", "cat", "type", "typ"}
)

// ArticleRow is one parsed catalog line.
type ArticleRow struct {
	SAPArticle  string
	PartNumber  string
	Description string
	Category    string
}

// BOMRow is one parsed manifest line.
type BOMRow struct {
	SAPArticle  string
	PartNumber  string
	Description string
	Quantity    float64
	Category    string
}

func normalize(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}

func matchColumn(cell string, variants []string) bool {
	n := normalize(cell)
	if n == "" {
		return false
	}
	for _, v := range variants {
		if n == v {
			return true
		}
	}
	return false
}

type columnMap struct {
	sap, qty, part, desc, cat int
	headerRow                 int
}

func newColumnMap() columnMap {
	return columnMap{sap: -1, qty: -1, part: -1, desc: -1, cat: -1, headerRow: -1}
}

// matches counts how many logical columns the row resolves.
func (c columnMap) matches() int {
	n := 0
	for _, idx := range []int{c.sap, c.qty, c.part, c.desc} {
		if idx >= 0 {
			n++
		}
	}
	return n
}

// findHeader scans the leading rows for the best header candidate. A row
// qualifies when it resolves the sap column plus at least two of quantity,
// part number, and description (the 3-of-4 rule); the earliest qualifying
// row wins.
func findHeader(rows [][]string) columnMap {
	depth := len(rows)
	if depth > headerScanDepth {
		depth = headerScanDepth
	}

	for i := 0; i < depth; i++ {
		cm := newColumnMap()
		for j, cell := range rows[i] {
			switch {
			case cm.sap < 0 && matchColumn(cell, sapHeaders):
				cm.sap = j
			case cm.qty < 0 && matchColumn(cell, qtyHeaders):
				cm.qty = j
			case cm.part < 0 && matchColumn(cell, partHeaders):
				cm.part = j
			case cm.desc < 0 && matchColumn(cell, descHeaders):
				cm.desc = j
			case cm.cat < 0 && matchColumn(cell, catHeaders):
				cm.cat = j
			}
		}
		if cm.sap >= 0 && cm.matches() >= 3 {
			cm.headerRow = i
			return cm
		}
	}
	return newColumnMap()
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseQuantity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	// Spreadsheets exported from European locales use a decimal comma.
	raw = strings.ReplaceAll(raw, ",", ".")
	return strconv.ParseFloat(raw, 64)
}

func loadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// ParseArticles reads a catalog workbook. Requires sap and category columns;
// part number and description are optional. Rows missing a sap article are
// skipped, a duplicate (sap, category) pair is an error because the catalog
// store enforces that uniqueness.
func ParseArticles(r io.Reader) ([]ArticleRow, error) {
	rows, err := loadRows(r)
	if err != nil {
		return nil, err
	}

	cm := findHeader(rows)
	if cm.headerRow < 0 {
		return nil, ErrNoHeader
	}
	if cm.sap < 0 {
		return nil, ErrMissingSAP
	}
	if cm.cat < 0 {
		return nil, ErrMissingCat
	}

	seen := make(map[string]struct{})
	var articles []ArticleRow
	for _, row := range rows[cm.headerRow+1:] {
		sap := cellAt(row, cm.sap)
		if sap == "" {
			continue
		}
		category := cellAt(row, cm.cat)
		key := sap + "\x00" + category
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s / %s", ErrDuplicateRow, sap, category)
		}
		seen[key] = struct{}{}

		articles = append(articles, ArticleRow{
			SAPArticle:  sap,
			PartNumber:  cellAt(row, cm.part),
			Description: cellAt(row, cm.desc),
			Category:    category,
		})
	}
	if len(articles) == 0 {
		return nil, ErrEmptyFile
	}
	return articles, nil
}

// ParseBOM reads a manifest workbook. Requires sap and quantity columns. Rows
// without a parsable quantity are skipped. When the sheet carries a category
// column and targetCategory is set, rows of other categories are filtered out.
func ParseBOM(r io.Reader, targetCategory string) ([]BOMRow, error) {
	rows, err := loadRows(r)
	if err != nil {
		return nil, err
	}

	cm := findHeader(rows)
	if cm.headerRow < 0 {
		return nil, ErrNoHeader
	}
	if cm.sap < 0 {
		return nil, ErrMissingSAP
	}
	if cm.qty < 0 {
		return nil, ErrMissingQty
	}

	var items []BOMRow
	for _, row := range rows[cm.headerRow+1:] {
		sap := cellAt(row, cm.sap)
		if sap == "" {
			continue
		}
		qty, err := parseQuantity(cellAt(row, cm.qty))
		if err != nil {
			continue
		}

		category := cellAt(row, cm.cat)
		if cm.cat >= 0 && targetCategory != "" && category != "" &&
			!strings.EqualFold(category, targetCategory) {
			continue
		}

		items = append(items, BOMRow{
			SAPArticle:  sap,
			PartNumber:  cellAt(row, cm.part),
			Description: cellAt(row, cm.desc),
			Quantity:    qty,
			Category:    category,
		})
	}
	if len(items) == 0 {
		return nil, ErrEmptyFile
	}
	return items, nil
}
