package repository

import (
	"go-scanner-ws/internal/model"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	// ReplaceAll clears the catalog and inserts the given articles in one
	// transaction (full-replace upload semantics).
	ReplaceAll(articles []model.Article) error

	// FindBySAP resolves a sap_article against the catalog regardless of
	// category. When the same sap_article exists in several categories the
	// lowest category (ascending order) wins, so resolution is deterministic.
	FindBySAP(sapArticle string) (*model.Article, error)

	FindAll(category, search string, offset, limit int) ([]model.Article, error)
	Count() (int64, error)
}

type articleRepo struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) ArticleRepository {
	return &articleRepo{db}
}

func (r *articleRepo) ReplaceAll(articles []model.Article) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Article{}).Error; err != nil {
			return err
		}
		if len(articles) == 0 {
			return nil
		}
		return tx.CreateInBatches(articles, 500).Error
	})
}

func (r *articleRepo) FindBySAP(sapArticle string) (*model.Article, error) {
	var article model.Article
	if err := r.db.Where("sap_article = ?", sapArticle).
		Order("category ASC").
		First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepo) FindAll(category, search string, offset, limit int) ([]model.Article, error) {
	query := r.db.Model(&model.Article{})

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"sap_article LIKE ? OR part_number LIKE ? OR description LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var articles []model.Article
	if err := query.Order("sap_article ASC").
		Offset(offset).Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Article{}).Count(&count).Error
	return count, err
}
