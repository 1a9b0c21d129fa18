package repository

import (
	"time"

	"go-scanner-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleRollup is one grouped line of the per-article inventory summary.
type ArticleRollup struct {
	SAPArticle       string    `json:"sap_article"`
	PartNumber       string    `json:"part_number,omitempty"`
	Description      string    `json:"description,omitempty"`
	DetectedCategory string    `json:"detected_category,omitempty"`
	TotalQuantity    float64   `json:"total_quantity"`
	ScanCount        int64     `json:"scan_count"`
	FirstScan        time.Time `json:"first_scan"`
	LastScan         time.Time `json:"last_scan"`
}

// CategoryRollup aggregates a session's records per detected category.
type CategoryRollup struct {
	DetectedCategory string  `json:"detected_category,omitempty"`
	UniqueItems      int64   `json:"unique_items"`
	TotalQuantity    float64 `json:"total_quantity"`
	ScanCount        int64   `json:"scan_count"`
}

// ArticleTotal carries a summed quantity per (article, category), used when
// comparing an INVENTORY session against current BOMs.
type ArticleTotal struct {
	SAPArticle       string
	DetectedCategory string
	TotalQuantity    float64
}

type RecordRepository interface {
	// Create and Save take the transaction handle so a status computed from a
	// quantity sum and the write it belongs to commit atomically.
	Create(tx *gorm.DB, record *model.ScanRecord) error
	Save(tx *gorm.DB, record *model.ScanRecord) error

	// SumQuantity totals all scanned quantity for one article in one session.
	// The running BOM status is always recomputed from this sum, never
	// incremented.
	SumQuantity(tx *gorm.DB, sessionID uuid.UUID, sapArticle string) (float64, error)

	FindByID(id uuid.UUID) (*model.ScanRecord, error)
	FindBySession(sessionID uuid.UUID) ([]model.ScanRecord, error)
	Delete(id uuid.UUID) error

	DistinctArticles(sessionID uuid.UUID) ([]string, error)
	Count(sessionID uuid.UUID) (int64, error)
	CountByStatus(sessionID uuid.UUID, status model.ScanStatus) (int64, error)

	GroupByArticle(sessionID uuid.UUID) ([]ArticleRollup, error)
	GroupByCategory(sessionID uuid.UUID) ([]CategoryRollup, error)
	GroupByArticleInCategory(sessionID uuid.UUID, category string) ([]ArticleRollup, error)
	ArticleTotals(sessionID uuid.UUID) ([]ArticleTotal, error)
}

type recordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) RecordRepository {
	return &recordRepo{db}
}

func (r *recordRepo) Create(tx *gorm.DB, record *model.ScanRecord) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(record).Error
}

func (r *recordRepo) Save(tx *gorm.DB, record *model.ScanRecord) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(record).Error
}

func (r *recordRepo) SumQuantity(tx *gorm.DB, sessionID uuid.UUID, sapArticle string) (float64, error) {
	if tx == nil {
		tx = r.db
	}
	var total float64
	err := tx.Model(&model.ScanRecord{}).
		Where("session_id = ? AND sap_article = ?", sessionID, sapArticle).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *recordRepo) FindByID(id uuid.UUID) (*model.ScanRecord, error) {
	var record model.ScanRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepo) FindBySession(sessionID uuid.UUID) ([]model.ScanRecord, error) {
	var records []model.ScanRecord
	if err := r.db.Where("session_id = ?", sessionID).
		Order("scanned_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.ScanRecord{}, "id = ?", id).Error
}

func (r *recordRepo) DistinctArticles(sessionID uuid.UUID) ([]string, error) {
	var articles []string
	if err := r.db.Model(&model.ScanRecord{}).
		Where("session_id = ?", sessionID).
		Distinct("sap_article").
		Pluck("sap_article", &articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *recordRepo) Count(sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.ScanRecord{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *recordRepo) CountByStatus(sessionID uuid.UUID, status model.ScanStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.ScanRecord{}).
		Where("session_id = ? AND status = ?", sessionID, status).
		Count(&count).Error
	return count, err
}

func (r *recordRepo) GroupByArticle(sessionID uuid.UUID) ([]ArticleRollup, error) {
	var rollups []ArticleRollup
	err := r.db.Model(&model.ScanRecord{}).
		Select("sap_article, part_number, description, detected_category, "+
			"SUM(quantity) AS total_quantity, COUNT(id) AS scan_count, "+
			"MIN(scanned_at) AS first_scan, MAX(scanned_at) AS last_scan").
		Where("session_id = ?", sessionID).
		Group("sap_article, part_number, description, detected_category").
		Order("sap_article ASC").
		Scan(&rollups).Error
	return rollups, err
}

func (r *recordRepo) GroupByCategory(sessionID uuid.UUID) ([]CategoryRollup, error) {
	var rollups []CategoryRollup
	err := r.db.Model(&model.ScanRecord{}).
		Select("detected_category, COUNT(DISTINCT sap_article) AS unique_items, "+
			"SUM(quantity) AS total_quantity, COUNT(id) AS scan_count").
		Where("session_id = ?", sessionID).
		Group("detected_category").
		Order("detected_category ASC").
		Scan(&rollups).Error
	return rollups, err
}

func (r *recordRepo) GroupByArticleInCategory(sessionID uuid.UUID, category string) ([]ArticleRollup, error) {
	var rollups []ArticleRollup
	err := r.db.Model(&model.ScanRecord{}).
		Select("sap_article, part_number, description, detected_category, "+
			"SUM(quantity) AS total_quantity, COUNT(id) AS scan_count, "+
			"MIN(scanned_at) AS first_scan, MAX(scanned_at) AS last_scan").
		Where("session_id = ? AND detected_category = ?", sessionID, category).
		Group("sap_article, part_number, description, detected_category").
		Order("sap_article ASC").
		Scan(&rollups).Error
	return rollups, err
}

func (r *recordRepo) ArticleTotals(sessionID uuid.UUID) ([]ArticleTotal, error) {
	var totals []ArticleTotal
	err := r.db.Model(&model.ScanRecord{}).
		Select("sap_article, detected_category, SUM(quantity) AS total_quantity").
		Where("session_id = ?", sessionID).
		Group("sap_article, detected_category").
		Scan(&totals).Error
	return totals, err
}
