package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionMode selects what a scan session compares against.
type SessionMode string

const (
	ModeInventory SessionMode = "INVENTORY" // free counting, no expected quantities
	ModeBOM       SessionMode = "BOM"       // comparison against a BOM manifest
)

// ScanStatus classifies a record against its BOM expectation. Empty means no
// comparison applied (plain inventory counting).
type ScanStatus string

const (
	StatusMatch   ScanStatus = "MATCH"
	StatusOver    ScanStatus = "OVER"
	StatusUnder   ScanStatus = "UNDER"
	StatusMissing ScanStatus = "MISSING" // report-only, never stored on a record
)

// ScanSession is one bounded scanning activity by one user.
// Lifecycle is one-way: active -> ended. An ended session is immutable except
// for administrative record edits; deletion is a hard delete that cascades to
// all records.
type ScanSession struct {
	BaseModel
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Mode      SessionMode `gorm:"type:varchar(20);not null" json:"mode" validate:"required,oneof=INVENTORY BOM"`
	Category  string      `gorm:"type:varchar(100);index" json:"category,omitempty"`
	BOMID     *uuid.UUID  `gorm:"type:uuid" json:"bom_id,omitempty"`
	BOM       *BOM        `gorm:"foreignKey:BOMID" json:"bom,omitempty"`
	StartedAt time.Time   `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time  `json:"ended_at,omitempty"`
	IsActive  bool        `gorm:"default:true;index" json:"is_active"`

	Records []ScanRecord `gorm:"foreignKey:SessionID" json:"records,omitempty"`
}

func (ScanSession) TableName() string {
	return "scan_sessions"
}

// ScanRecord is one scan event inside a session. Article fields are
// value-copied from the catalog at scan time and never re-resolved, so later
// catalog edits do not rewrite history. DetectedCategory is resolved once at
// creation and immutable.
type ScanRecord struct {
	BaseModel
	SessionID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_scan_records_session_sap" json:"session_id" validate:"uuid_required"`
	SAPArticle       string     `gorm:"type:varchar(100);not null;index:idx_scan_records_session_sap" json:"sap_article" validate:"required"`
	PartNumber       string     `gorm:"type:varchar(100)" json:"part_number,omitempty"`
	Description      string     `gorm:"type:text" json:"description,omitempty"`
	PONumber         string     `gorm:"type:varchar(100)" json:"po_number,omitempty"`
	Quantity         float64    `gorm:"not null;default:1" json:"quantity"`
	ScannedAt        time.Time  `gorm:"not null;index" json:"scanned_at"`
	ManualEntry      bool       `gorm:"default:false" json:"manual_entry"`
	DetectedCategory string     `gorm:"type:varchar(100);index" json:"detected_category,omitempty"`
	ExpectedQuantity *float64   `json:"expected_quantity,omitempty"`
	Status           ScanStatus `gorm:"type:varchar(10)" json:"status,omitempty"`
}

func (ScanRecord) TableName() string {
	return "scan_records"
}

// ScanRecordResponse is the wire shape of a record, used both in REST replies
// and inside live event payloads.
type ScanRecordResponse struct {
	ID               uuid.UUID  `json:"id"`
	SessionID        uuid.UUID  `json:"session_id"`
	SAPArticle       string     `json:"sap_article"`
	PartNumber       string     `json:"part_number,omitempty"`
	Description      string     `json:"description,omitempty"`
	PONumber         string     `json:"po_number,omitempty"`
	Quantity         float64    `json:"quantity"`
	ScannedAt        time.Time  `json:"scanned_at"`
	ManualEntry      bool       `json:"manual_entry"`
	DetectedCategory string     `json:"detected_category,omitempty"`
	ExpectedQuantity *float64   `json:"expected_quantity,omitempty"`
	Status           ScanStatus `json:"status,omitempty"`
}

func (r *ScanRecord) ToResponse() ScanRecordResponse {
	return ScanRecordResponse{
		ID:               r.ID,
		SessionID:        r.SessionID,
		SAPArticle:       r.SAPArticle,
		PartNumber:       r.PartNumber,
		Description:      r.Description,
		PONumber:         r.PONumber,
		Quantity:         r.Quantity,
		ScannedAt:        r.ScannedAt,
		ManualEntry:      r.ManualEntry,
		DetectedCategory: r.DetectedCategory,
		ExpectedQuantity: r.ExpectedQuantity,
		Status:           r.Status,
	}
}

// ScanSessionResponse enriches a session with BOM metadata for list views.
type ScanSessionResponse struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user_id"`
	Mode              SessionMode `json:"mode"`
	Category          string      `json:"category,omitempty"`
	BOMID             *uuid.UUID  `json:"bom_id,omitempty"`
	StartedAt         time.Time   `json:"started_at"`
	EndedAt           *time.Time  `json:"ended_at,omitempty"`
	IsActive          bool        `json:"is_active"`
	BOMName           string      `json:"bom_name,omitempty"`
	BOMItemsCount     int         `json:"bom_items_count,omitempty"`
	ScannedItemsCount int         `json:"scanned_items_count"`
}

func (s *ScanSession) ToResponse() ScanSessionResponse {
	resp := ScanSessionResponse{
		ID:                s.ID,
		UserID:            s.UserID,
		Mode:              s.Mode,
		Category:          s.Category,
		BOMID:             s.BOMID,
		StartedAt:         s.StartedAt,
		EndedAt:           s.EndedAt,
		IsActive:          s.IsActive,
		ScannedItemsCount: len(s.Records),
	}
	if s.BOM != nil {
		resp.BOMName = s.BOM.Name
		resp.BOMItemsCount = len(s.BOM.Items)
	}
	return resp
}

// MissingItem is a BOM line that was never scanned in a session.
type MissingItem struct {
	SAPArticle       string  `json:"sap_article"`
	PartNumber       string  `json:"part_number,omitempty"`
	Description      string  `json:"description,omitempty"`
	ExpectedQuantity float64 `json:"expected_quantity"`
	ScannedQuantity  float64 `json:"scanned_quantity"`
	Difference       float64 `json:"difference"`
	Status           string  `json:"status"`
}
