package repository

import (
	"go-scanner-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BOMRepository interface {
	Create(bom *model.BOM) error
	FindByID(id uuid.UUID) (*model.BOM, error)
	FindAll(category string) ([]model.BOM, error)

	// FindCurrentByCategory returns the most recently uploaded active BOM for
	// a category, which is the one sessions and dashboards compare against.
	FindCurrentByCategory(category string) (*model.BOM, error)

	Deactivate(id uuid.UUID) error
	FindItem(bomID uuid.UUID, sapArticle string) (*model.BOMItem, error)
	FindItems(bomID uuid.UUID) ([]model.BOMItem, error)
	CountItems(bomID uuid.UUID) (int64, error)

	// Categories lists the distinct categories of active BOMs; the dashboard
	// overview iterates these instead of a hard-coded category set.
	Categories() ([]string, error)
}

type bomRepo struct {
	db *gorm.DB
}

func NewBOMRepo(db *gorm.DB) BOMRepository {
	return &bomRepo{db}
}

func (r *bomRepo) Create(bom *model.BOM) error {
	return r.db.Create(bom).Error
}

func (r *bomRepo) FindByID(id uuid.UUID) (*model.BOM, error) {
	var bom model.BOM
	if err := r.db.Preload("Items").First(&bom, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bom, nil
}

func (r *bomRepo) FindAll(category string) ([]model.BOM, error) {
	query := r.db.Preload("Items").Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var boms []model.BOM
	if err := query.Order("uploaded_at DESC").Find(&boms).Error; err != nil {
		return nil, err
	}
	return boms, nil
}

func (r *bomRepo) FindCurrentByCategory(category string) (*model.BOM, error) {
	var bom model.BOM
	if err := r.db.Preload("Items").
		Where("category = ? AND is_active = ?", category, true).
		Order("uploaded_at DESC").
		First(&bom).Error; err != nil {
		return nil, err
	}
	return &bom, nil
}

func (r *bomRepo) Deactivate(id uuid.UUID) error {
	return r.db.Model(&model.BOM{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *bomRepo) FindItem(bomID uuid.UUID, sapArticle string) (*model.BOMItem, error) {
	var item model.BOMItem
	if err := r.db.First(&item, "bom_id = ? AND sap_article = ?", bomID, sapArticle).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *bomRepo) FindItems(bomID uuid.UUID) ([]model.BOMItem, error) {
	var items []model.BOMItem
	if err := r.db.Where("bom_id = ?", bomID).
		Order("sap_article ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *bomRepo) CountItems(bomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.BOMItem{}).Where("bom_id = ?", bomID).Count(&count).Error
	return count, err
}

func (r *bomRepo) Categories() ([]string, error) {
	var categories []string
	if err := r.db.Model(&model.BOM{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
