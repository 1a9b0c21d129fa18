package service

import (
	"errors"
	"sync"
	"time"

	"go-scanner-ws/internal/broadcast"
	"go-scanner-ws/internal/model"
	"go-scanner-ws/internal/repository"
	"go-scanner-ws/pkg/logger"
	"go-scanner-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = errors.New("scan record not found")
	ErrNotOwner       = errors.New("record does not belong to this user")
)

type RecordScanRequest struct {
	SessionID      uuid.UUID `json:"session_id" validate:"uuid_required"`
	SAPArticle     string    `json:"sap_article" validate:"required"`
	PONumber       string    `json:"po_number"`
	Quantity       float64   `json:"quantity"`
	ManualEntry    bool      `json:"manual_entry"`
	ManualCategory string    `json:"manual_category"`
}

type ScanService interface {
	RecordScan(userID uuid.UUID, req *RecordScanRequest) (*model.ScanRecord, error)
	UpdateQuantity(userID, recordID uuid.UUID, quantity float64) (*model.ScanRecord, error)
	DeleteRecord(userID, recordID uuid.UUID) error

	GetSessionRecords(userID, sessionID uuid.UUID) ([]model.ScanRecordResponse, error)
	ComputeMissingItems(userID, sessionID uuid.UUID) ([]model.MissingItem, error)
	GetSessionSummary(userID, sessionID uuid.UUID) (*SessionSummary, error)
	GetInventorySummary(userID, sessionID uuid.UUID) (*InventorySummary, error)
	GetInventorySummaryByCategory(userID, sessionID uuid.UUID) (*CategorySummary, error)
}

type scanService struct {
	db          *gorm.DB
	sessionRepo repository.SessionRepository
	recordRepo  repository.RecordRepository
	articleRepo repository.ArticleRepository
	bomRepo     repository.BOMRepository
	hub         *broadcast.Hub
	log         *logrus.Logger

	// locks serializes writes per session, so concurrent scans of the same
	// article cannot both read a stale quantity sum.
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewScanService(
	db *gorm.DB,
	sessionRepo repository.SessionRepository,
	recordRepo repository.RecordRepository,
	articleRepo repository.ArticleRepository,
	bomRepo repository.BOMRepository,
	hub *broadcast.Hub,
) ScanService {
	return &scanService{
		db:          db,
		sessionRepo: sessionRepo,
		recordRepo:  recordRepo,
		articleRepo: articleRepo,
		bomRepo:     bomRepo,
		hub:         hub,
		log:         logger.Get(),
	}
}

func (s *scanService) sessionLock(sessionID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// classifyStatus maps the cumulative scanned total for an article against its
// expected quantity.
func classifyStatus(total, expected float64) model.ScanStatus {
	switch {
	case total == expected:
		return model.StatusMatch
	case total > expected:
		return model.StatusOver
	default:
		return model.StatusUnder
	}
}

// RecordScan appends a scan to a session. The detected category is resolved
// catalog first, then the caller's manual category, then the session category.
// In BOM mode the record's status is recomputed from the full quantity sum for
// that article; an article absent from the BOM is OVER with no expected
// quantity. The insert and the status it carries commit in one transaction,
// and the scan event goes out only after the commit.
func (s *scanService) RecordScan(userID uuid.UUID, req *RecordScanRequest) (*model.ScanRecord, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindByIDAndUser(req.SessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsActive {
		return nil, ErrSessionInactive
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	record := &model.ScanRecord{
		SessionID:   session.ID,
		SAPArticle:  req.SAPArticle,
		PONumber:    req.PONumber,
		Quantity:    quantity,
		ScannedAt:   time.Now().UTC(),
		ManualEntry: req.ManualEntry,
	}

	if article, err := s.articleRepo.FindBySAP(req.SAPArticle); err == nil {
		record.PartNumber = article.PartNumber
		record.Description = article.Description
		record.DetectedCategory = article.Category
	} else if req.ManualCategory != "" {
		record.DetectedCategory = req.ManualCategory
	} else {
		record.DetectedCategory = session.Category
	}

	var bomItem *model.BOMItem
	if session.Mode == model.ModeBOM && session.BOMID != nil {
		if item, err := s.bomRepo.FindItem(*session.BOMID, req.SAPArticle); err == nil {
			bomItem = item
			if record.PartNumber == "" {
				record.PartNumber = item.PartNumber
			}
			if record.Description == "" {
				record.Description = item.Description
			}
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			record.Status = model.StatusOver
		} else {
			return nil, err
		}
	}

	mu := s.sessionLock(session.ID)
	mu.Lock()
	defer mu.Unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if bomItem != nil {
			previous, err := s.recordRepo.SumQuantity(tx, session.ID, req.SAPArticle)
			if err != nil {
				return err
			}
			expected := bomItem.Quantity
			record.ExpectedQuantity = &expected
			record.Status = classifyStatus(previous+quantity, expected)
		}
		return s.recordRepo.Create(tx, record)
	})
	if err != nil {
		return nil, err
	}

	resp := record.ToResponse()
	s.hub.Broadcast(broadcast.Event{
		Type:      broadcast.EventScan,
		SessionID: session.ID,
		Record:    &resp,
	})

	s.log.WithFields(logrus.Fields{
		"session_id":  session.ID,
		"sap_article": record.SAPArticle,
		"quantity":    record.Quantity,
		"status":      record.Status,
	}).Info("scan recorded")
	return record, nil
}

// UpdateQuantity edits one record's quantity and recomputes its status from
// the new session-wide sum. A record whose article is not in the session's BOM
// keeps its OVER status no matter the quantity.
func (s *scanService) UpdateQuantity(userID, recordID uuid.UUID, quantity float64) (*model.ScanRecord, error) {
	record, err := s.recordRepo.FindByID(recordID)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	session, err := s.sessionRepo.FindByID(record.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, ErrNotOwner
	}

	mu := s.sessionLock(session.ID)
	mu.Lock()
	defer mu.Unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		record.Quantity = quantity
		if err := s.recordRepo.Save(tx, record); err != nil {
			return err
		}
		if session.Mode == model.ModeBOM && session.BOMID != nil && record.ExpectedQuantity != nil {
			total, err := s.recordRepo.SumQuantity(tx, session.ID, record.SAPArticle)
			if err != nil {
				return err
			}
			record.Status = classifyStatus(total, *record.ExpectedQuantity)
			return s.recordRepo.Save(tx, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := record.ToResponse()
	s.hub.Broadcast(broadcast.Event{
		Type:      broadcast.EventRecordUpdated,
		SessionID: session.ID,
		Record:    &resp,
	})

	s.log.WithFields(logrus.Fields{
		"record_id": recordID,
		"quantity":  quantity,
		"status":    record.Status,
	}).Info("scan record updated")
	return record, nil
}

// DeleteRecord removes one record. Statuses of the article's remaining records
// in the session are left as written.
func (s *scanService) DeleteRecord(userID, recordID uuid.UUID) error {
	record, err := s.recordRepo.FindByID(recordID)
	if err != nil {
		return ErrRecordNotFound
	}
	session, err := s.sessionRepo.FindByID(record.SessionID)
	if err != nil {
		return ErrSessionNotFound
	}
	if session.UserID != userID {
		return ErrNotOwner
	}

	mu := s.sessionLock(session.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.recordRepo.Delete(recordID); err != nil {
		return err
	}

	s.hub.Broadcast(broadcast.Event{
		Type:      broadcast.EventRecordDeleted,
		SessionID: session.ID,
		RecordID:  &recordID,
	})

	s.log.WithFields(logrus.Fields{
		"record_id":  recordID,
		"session_id": session.ID,
	}).Info("scan record deleted")
	return nil
}

func (s *scanService) GetSessionRecords(userID, sessionID uuid.UUID) ([]model.ScanRecordResponse, error) {
	if _, err := s.sessionRepo.FindByIDAndUser(sessionID, userID); err != nil {
		return nil, ErrSessionNotFound
	}
	records, err := s.recordRepo.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ScanRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].ToResponse())
	}
	return responses, nil
}

// ComputeMissingItems lists BOM lines with no scan at all in the session.
// Missing is a report-time view, never stored. Sessions without a BOM have no
// missing items by definition.
func (s *scanService) ComputeMissingItems(userID, sessionID uuid.UUID) ([]model.MissingItem, error) {
	session, err := s.sessionRepo.FindByIDAndUser(sessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if session.Mode != model.ModeBOM || session.BOMID == nil {
		return []model.MissingItem{}, nil
	}

	items, err := s.bomRepo.FindItems(*session.BOMID)
	if err != nil {
		return nil, err
	}
	scanned, err := s.recordRepo.DistinctArticles(sessionID)
	if err != nil {
		return nil, err
	}

	scannedSet := make(map[string]struct{}, len(scanned))
	for _, sap := range scanned {
		scannedSet[sap] = struct{}{}
	}

	missing := []model.MissingItem{}
	for _, item := range items {
		if _, ok := scannedSet[item.SAPArticle]; ok {
			continue
		}
		missing = append(missing, model.MissingItem{
			SAPArticle:       item.SAPArticle,
			PartNumber:       item.PartNumber,
			Description:      item.Description,
			ExpectedQuantity: item.Quantity,
			ScannedQuantity:  0,
			Difference:       -item.Quantity,
			Status:           string(model.StatusMissing),
		})
	}
	return missing, nil
}

// SessionSummary is the per-record reconciliation view of a BOM session.
type SessionSummary struct {
	Session    model.ScanSessionResponse `json:"session"`
	Items      []SummaryItem             `json:"items"`
	TotalItems int                       `json:"total_items"`
	MatchCount int                       `json:"match_count"`
	OverCount  int                       `json:"over_count"`
	UnderCount int                       `json:"under_count"`
}

type SummaryItem struct {
	RecordID         uuid.UUID `json:"record_id"`
	SAPArticle       string    `json:"sap_article"`
	PartNumber       string    `json:"part_number,omitempty"`
	Description      string    `json:"description,omitempty"`
	ScannedQuantity  float64   `json:"scanned_quantity"`
	DetectedCategory string    `json:"detected_category,omitempty"`
	ExpectedQuantity *float64  `json:"expected_quantity,omitempty"`
	Difference       *float64  `json:"difference,omitempty"`
	Status           string    `json:"status"`
}

func (s *scanService) GetSessionSummary(userID, sessionID uuid.UUID) (*SessionSummary, error) {
	session, err := s.sessionRepo.FindByIDAndUser(sessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	records, err := s.recordRepo.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}

	summary := &SessionSummary{
		Session:    session.ToResponse(),
		Items:      make([]SummaryItem, 0, len(records)),
		TotalItems: len(records),
	}
	for i := range records {
		record := &records[i]
		item := SummaryItem{
			RecordID:         record.ID,
			SAPArticle:       record.SAPArticle,
			PartNumber:       record.PartNumber,
			Description:      record.Description,
			ScannedQuantity:  record.Quantity,
			DetectedCategory: record.DetectedCategory,
			ExpectedQuantity: record.ExpectedQuantity,
			Status:           string(record.Status),
		}
		if item.Status == "" {
			item.Status = "COUNTED"
		}
		if record.ExpectedQuantity != nil {
			diff := record.Quantity - *record.ExpectedQuantity
			item.Difference = &diff
		}
		switch record.Status {
		case model.StatusMatch:
			summary.MatchCount++
		case model.StatusOver:
			summary.OverCount++
		case model.StatusUnder:
			summary.UnderCount++
		}
		summary.Items = append(summary.Items, item)
	}
	return summary, nil
}

// InventorySummary groups a session's records per article.
type InventorySummary struct {
	Session         model.ScanSessionResponse  `json:"session"`
	TotalUniqueItem int64                      `json:"total_unique_items"`
	TotalScans      int64                      `json:"total_scans"`
	TotalQuantity   float64                    `json:"total_quantity"`
	Items           []repository.ArticleRollup `json:"items"`
}

func (s *scanService) GetInventorySummary(userID, sessionID uuid.UUID) (*InventorySummary, error) {
	session, err := s.sessionRepo.FindByIDAndUser(sessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	rollups, err := s.recordRepo.GroupByArticle(sessionID)
	if err != nil {
		return nil, err
	}

	summary := &InventorySummary{
		Session:         session.ToResponse(),
		TotalUniqueItem: int64(len(rollups)),
		Items:           rollups,
	}
	for _, rollup := range rollups {
		summary.TotalScans += rollup.ScanCount
		summary.TotalQuantity += rollup.TotalQuantity
	}
	return summary, nil
}

// CategorySummary groups a session's records per detected category, each with
// its own per-article breakdown. Records with no category land in UNKNOWN.
type CategorySummary struct {
	Session         model.ScanSessionResponse `json:"session"`
	TotalUniqueItem int64                     `json:"total_unique_items"`
	TotalQuantity   float64                   `json:"total_quantity"`
	Categories      []CategoryBlock           `json:"categories"`
}

type CategoryBlock struct {
	Category      string                     `json:"category"`
	UniqueItems   int64                      `json:"unique_items"`
	TotalQuantity float64                    `json:"total_quantity"`
	ScanCount     int64                      `json:"scan_count"`
	Items         []repository.ArticleRollup `json:"items"`
}

func (s *scanService) GetInventorySummaryByCategory(userID, sessionID uuid.UUID) (*CategorySummary, error) {
	session, err := s.sessionRepo.FindByIDAndUser(sessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	rollups, err := s.recordRepo.GroupByCategory(sessionID)
	if err != nil {
		return nil, err
	}

	summary := &CategorySummary{
		Session:    session.ToResponse(),
		Categories: make([]CategoryBlock, 0, len(rollups)),
	}
	for _, rollup := range rollups {
		items, err := s.recordRepo.GroupByArticleInCategory(sessionID, rollup.DetectedCategory)
		if err != nil {
			return nil, err
		}

		block := CategoryBlock{
			Category:      rollup.DetectedCategory,
			UniqueItems:   rollup.UniqueItems,
			TotalQuantity: rollup.TotalQuantity,
			ScanCount:     rollup.ScanCount,
			Items:         items,
		}
		if block.Category == "" {
			block.Category = "UNKNOWN"
		}
		summary.Categories = append(summary.Categories, block)
		summary.TotalUniqueItem += rollup.UniqueItems
		summary.TotalQuantity += rollup.TotalQuantity
	}
	return summary, nil
}
