package report

import "time"

// SessionInfo identifies the session a report covers.
type SessionInfo struct {
	ID        string
	Mode      string
	Category  string
	BOMName   string
	Operator  string
	StartedAt time.Time
	EndedAt   *time.Time
}

// RecordRow is one reconciled line of the report, in stable sap order.
type RecordRow struct {
	SAPArticle  string
	PartNumber  string
	Description string
	Quantity    float64
	Expected    *float64
	Status      string
}

// MissingRow is a manifest line with no scan at all.
type MissingRow struct {
	SAPArticle  string
	PartNumber  string
	Description string
	Expected    float64
}

// Stats is the report's executive summary. CompletionPct is unique scanned
// articles over manifest lines and can exceed 100 when unlisted articles were
// scanned.
type Stats struct {
	TotalRecords  int
	MatchCount    int
	OverCount     int
	UnderCount    int
	MissingCount  int
	BOMItemsCount int
	CompletionPct float64
}

// SessionReport is the full dataset every output format renders from.
type SessionReport struct {
	Session SessionInfo
	Records []RecordRow
	Missing []MissingRow
	Stats   Stats
}

// Discrepancies returns the records that deviate from the manifest.
func (r *SessionReport) Discrepancies() []RecordRow {
	var out []RecordRow
	for _, rec := range r.Records {
		if rec.Status == "OVER" || rec.Status == "UNDER" {
			out = append(out, rec)
		}
	}
	return out
}

func (r *RecordRow) difference() float64 {
	if r.Expected == nil {
		return r.Quantity
	}
	return r.Quantity - *r.Expected
}
