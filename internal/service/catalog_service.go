package service

import (
	"bytes"
	"errors"
	"time"

	"go-scanner-ws/internal/model"
	"go-scanner-ws/internal/repository"
	"go-scanner-ws/pkg/excel"
	"go-scanner-ws/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const uploadPreviewSize = 10

// ArticleUploadResult reports a catalog replacement back to the uploader.
type ArticleUploadResult struct {
	Count   int             `json:"count"`
	Preview []model.Article `json:"preview"`
}

type ArticlePage struct {
	Total    int64           `json:"total"`
	Articles []model.Article `json:"articles"`
}

type CatalogService interface {
	UploadArticles(data []byte) (*ArticleUploadResult, error)
	ListArticles(category, search string, skip, limit int) (*ArticlePage, error)
	GetArticle(sapArticle string) (*model.Article, error)

	UploadBOM(userID uuid.UUID, name, category string, data []byte) (*model.BOM, error)
	ListBOMs(category string) ([]model.BOMResponse, error)
	GetBOM(id uuid.UUID) (*model.BOM, error)
	DeactivateBOM(id uuid.UUID) error
	Categories() ([]string, error)
}

type catalogService struct {
	articleRepo repository.ArticleRepository
	bomRepo     repository.BOMRepository
	log         *logrus.Logger
}

func NewCatalogService(
	articleRepo repository.ArticleRepository,
	bomRepo repository.BOMRepository,
) CatalogService {
	return &catalogService{
		articleRepo: articleRepo,
		bomRepo:     bomRepo,
		log:         logger.Get(),
	}
}

// UploadArticles replaces the whole catalog with the workbook's contents.
// There is no merge: a new master export supersedes the previous one entirely.
func (s *catalogService) UploadArticles(data []byte) (*ArticleUploadResult, error) {
	rows, err := excel.ParseArticles(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	articles := make([]model.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, model.Article{
			SAPArticle:  row.SAPArticle,
			PartNumber:  row.PartNumber,
			Description: row.Description,
			Category:    row.Category,
		})
	}
	if err := s.articleRepo.ReplaceAll(articles); err != nil {
		return nil, err
	}

	s.log.WithField("count", len(articles)).Info("article catalog replaced")

	preview := articles
	if len(preview) > uploadPreviewSize {
		preview = preview[:uploadPreviewSize]
	}
	return &ArticleUploadResult{Count: len(articles), Preview: preview}, nil
}

func (s *catalogService) ListArticles(category, search string, skip, limit int) (*ArticlePage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	articles, err := s.articleRepo.FindAll(category, search, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.articleRepo.Count()
	if err != nil {
		return nil, err
	}
	return &ArticlePage{Total: total, Articles: articles}, nil
}

func (s *catalogService) GetArticle(sapArticle string) (*model.Article, error) {
	article, err := s.articleRepo.FindBySAP(sapArticle)
	if err != nil {
		return nil, errors.New("article not found")
	}
	return article, nil
}

// UploadBOM parses a manifest workbook and stores it as the new current BOM
// for its category. Earlier BOMs stay active; currency is decided by upload
// time, so a bad upload is undone by uploading again.
func (s *catalogService) UploadBOM(userID uuid.UUID, name, category string, data []byte) (*model.BOM, error) {
	if name == "" || category == "" {
		return nil, errors.New("name and category are required")
	}

	rows, err := excel.ParseBOM(bytes.NewReader(data), category)
	if err != nil {
		return nil, err
	}

	bom := &model.BOM{
		Name:       name,
		Category:   category,
		UploadedBy: userID,
		UploadedAt: time.Now().UTC(),
		IsActive:   true,
		Items:      make([]model.BOMItem, 0, len(rows)),
	}
	for _, row := range rows {
		bom.Items = append(bom.Items, model.BOMItem{
			SAPArticle:  row.SAPArticle,
			PartNumber:  row.PartNumber,
			Description: row.Description,
			Quantity:    row.Quantity,
		})
	}
	if err := s.bomRepo.Create(bom); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"bom_id":   bom.ID,
		"category": category,
		"items":    len(bom.Items),
	}).Info("bom uploaded")
	return bom, nil
}

func (s *catalogService) ListBOMs(category string) ([]model.BOMResponse, error) {
	boms, err := s.bomRepo.FindAll(category)
	if err != nil {
		return nil, err
	}

	responses := make([]model.BOMResponse, 0, len(boms))
	for i := range boms {
		responses = append(responses, boms[i].ToResponse())
	}
	return responses, nil
}

func (s *catalogService) GetBOM(id uuid.UUID) (*model.BOM, error) {
	bom, err := s.bomRepo.FindByID(id)
	if err != nil {
		return nil, ErrBOMNotFound
	}
	return bom, nil
}

func (s *catalogService) DeactivateBOM(id uuid.UUID) error {
	if _, err := s.bomRepo.FindByID(id); err != nil {
		return ErrBOMNotFound
	}
	return s.bomRepo.Deactivate(id)
}

func (s *catalogService) Categories() ([]string, error) {
	return s.bomRepo.Categories()
}
