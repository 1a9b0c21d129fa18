package model

import (
	"time"

	"github.com/google/uuid"
)

// BOM is an expected-quantity manifest for one category. Several BOMs may
// exist per category; the "current" one is the most recently uploaded with
// IsActive=true. Deleting a BOM is a soft deactivate, never a row delete,
// because ended sessions still reference it.
type BOM struct {
	BaseModel
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category   string    `gorm:"type:varchar(100);not null;index" json:"category" validate:"required"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	UploadedAt time.Time `gorm:"not null" json:"uploaded_at"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`

	Items []BOMItem `gorm:"foreignKey:BOMID" json:"items,omitempty"`
}

func (BOM) TableName() string {
	return "boms"
}

// BOMItem is one expected line of a BOM. Quantity is expected to be positive;
// non-positive values are tolerated as data anomalies rather than rejected.
type BOMItem struct {
	BaseModel
	BOMID       uuid.UUID `gorm:"type:uuid;not null;index:idx_bom_items_bom_sap" json:"bom_id"`
	SAPArticle  string    `gorm:"type:varchar(100);not null;index:idx_bom_items_bom_sap" json:"sap_article"`
	PartNumber  string    `gorm:"type:varchar(100)" json:"part_number"`
	Description string    `gorm:"type:text" json:"description"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
}

func (BOMItem) TableName() string {
	return "bom_items"
}

// BOMResponse enriches a BOM with its item count for list views.
type BOMResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
	IsActive   bool      `json:"is_active"`
	ItemsCount int       `json:"items_count"`
}

func (b *BOM) ToResponse() BOMResponse {
	return BOMResponse{
		ID:         b.ID,
		Name:       b.Name,
		Category:   b.Category,
		UploadedBy: b.UploadedBy,
		UploadedAt: b.UploadedAt,
		IsActive:   b.IsActive,
		ItemsCount: len(b.Items),
	}
}
