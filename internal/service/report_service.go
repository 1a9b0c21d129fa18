package service

import (
	"sort"

	"go-scanner-ws/internal/model"
	"go-scanner-ws/internal/repository"
	"go-scanner-ws/pkg/logger"
	"go-scanner-ws/pkg/report"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReportPreview is the JSON rendition of a report: the same numbers the file
// formats print, plus one merged list of everything needing attention.
type ReportPreview struct {
	Session       model.ScanSessionResponse `json:"session"`
	Stats         report.Stats              `json:"stats"`
	Discrepancies []DiscrepancyItem         `json:"discrepancies"`
}

// DiscrepancyItem is one deviation line: an OVER or UNDER record, or a
// manifest line that was never scanned (status MISSING).
type DiscrepancyItem struct {
	SAPArticle       string   `json:"sap_article"`
	PartNumber       string   `json:"part_number,omitempty"`
	Description      string   `json:"description,omitempty"`
	ScannedQuantity  float64  `json:"scanned_quantity"`
	ExpectedQuantity *float64 `json:"expected_quantity,omitempty"`
	Difference       float64  `json:"difference"`
	Status           string   `json:"status"`
}

type ReportService interface {
	Preview(userID, sessionID uuid.UUID) (*ReportPreview, error)
	GeneratePDF(userID, sessionID uuid.UUID) ([]byte, error)
	GenerateExcel(userID, sessionID uuid.UUID) ([]byte, error)
	GenerateInventoryExcel(userID, sessionID uuid.UUID) ([]byte, error)
}

type reportService struct {
	sessionRepo repository.SessionRepository
	recordRepo  repository.RecordRepository
	bomRepo     repository.BOMRepository
	userRepo    repository.UserRepository
	scans       ScanService
	log         *logrus.Logger
}

func NewReportService(
	sessionRepo repository.SessionRepository,
	recordRepo repository.RecordRepository,
	bomRepo repository.BOMRepository,
	userRepo repository.UserRepository,
	scans ScanService,
) ReportService {
	return &reportService{
		sessionRepo: sessionRepo,
		recordRepo:  recordRepo,
		bomRepo:     bomRepo,
		userRepo:    userRepo,
		scans:       scans,
		log:         logger.Get(),
	}
}

// buildDataset assembles the one dataset all output formats render from.
// Records are sorted by sap article so every format lists items in the same
// order. Completion is unique scanned articles over manifest lines.
func (s *reportService) buildDataset(userID, sessionID uuid.UUID) (*report.SessionReport, *model.ScanSession, error) {
	session, err := s.sessionRepo.FindByIDAndUser(sessionID, userID)
	if err != nil {
		return nil, nil, ErrSessionNotFound
	}

	records, err := s.recordRepo.FindBySession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SAPArticle < records[j].SAPArticle
	})

	missing, err := s.scans.ComputeMissingItems(userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	data := &report.SessionReport{
		Session: report.SessionInfo{
			ID:        session.ID.String(),
			Mode:      string(session.Mode),
			Category:  session.Category,
			StartedAt: session.StartedAt,
			EndedAt:   session.EndedAt,
		},
		Records: make([]report.RecordRow, 0, len(records)),
		Missing: make([]report.MissingRow, 0, len(missing)),
	}

	if user, err := s.userRepo.FindByID(session.UserID); err == nil {
		data.Session.Operator = user.FullName
	}
	if session.BOMID != nil {
		if bom, err := s.bomRepo.FindByID(*session.BOMID); err == nil {
			data.Session.BOMName = bom.Name
			data.Stats.BOMItemsCount = len(bom.Items)
		}
	}

	unique := make(map[string]struct{}, len(records))
	for i := range records {
		rec := &records[i]
		unique[rec.SAPArticle] = struct{}{}

		data.Records = append(data.Records, report.RecordRow{
			SAPArticle:  rec.SAPArticle,
			PartNumber:  rec.PartNumber,
			Description: rec.Description,
			Quantity:    rec.Quantity,
			Expected:    rec.ExpectedQuantity,
			Status:      string(rec.Status),
		})
		switch rec.Status {
		case model.StatusMatch:
			data.Stats.MatchCount++
		case model.StatusOver:
			data.Stats.OverCount++
		case model.StatusUnder:
			data.Stats.UnderCount++
		}
	}
	for _, item := range missing {
		data.Missing = append(data.Missing, report.MissingRow{
			SAPArticle:  item.SAPArticle,
			PartNumber:  item.PartNumber,
			Description: item.Description,
			Expected:    item.ExpectedQuantity,
		})
	}

	data.Stats.TotalRecords = len(records)
	data.Stats.MissingCount = len(missing)
	if data.Stats.BOMItemsCount > 0 {
		data.Stats.CompletionPct = float64(len(unique)) / float64(data.Stats.BOMItemsCount) * 100
	}
	return data, session, nil
}

func (s *reportService) Preview(userID, sessionID uuid.UUID) (*ReportPreview, error) {
	data, session, err := s.buildDataset(userID, sessionID)
	if err != nil {
		return nil, err
	}

	preview := &ReportPreview{
		Session:       session.ToResponse(),
		Stats:         data.Stats,
		Discrepancies: []DiscrepancyItem{},
	}
	for _, rec := range data.Discrepancies() {
		item := DiscrepancyItem{
			SAPArticle:       rec.SAPArticle,
			PartNumber:       rec.PartNumber,
			Description:      rec.Description,
			ScannedQuantity:  rec.Quantity,
			ExpectedQuantity: rec.Expected,
			Status:           rec.Status,
		}
		if rec.Expected != nil {
			item.Difference = rec.Quantity - *rec.Expected
		} else {
			item.Difference = rec.Quantity
		}
		preview.Discrepancies = append(preview.Discrepancies, item)
	}
	for _, row := range data.Missing {
		expected := row.Expected
		preview.Discrepancies = append(preview.Discrepancies, DiscrepancyItem{
			SAPArticle:       row.SAPArticle,
			PartNumber:       row.PartNumber,
			Description:      row.Description,
			ScannedQuantity:  0,
			ExpectedQuantity: &expected,
			Difference:       -row.Expected,
			Status:           string(model.StatusMissing),
		})
	}
	return preview, nil
}

func (s *reportService) GeneratePDF(userID, sessionID uuid.UUID) ([]byte, error) {
	data, _, err := s.buildDataset(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.log.WithField("session_id", sessionID).Info("generating pdf report")
	return report.GeneratePDF(data)
}

func (s *reportService) GenerateExcel(userID, sessionID uuid.UUID) ([]byte, error) {
	data, _, err := s.buildDataset(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.log.WithField("session_id", sessionID).Info("generating excel report")
	return report.GenerateExcel(data)
}

// GenerateInventoryExcel exports an INVENTORY session's grouped totals, one
// row per article.
func (s *reportService) GenerateInventoryExcel(userID, sessionID uuid.UUID) ([]byte, error) {
	session, err := s.sessionRepo.FindByIDAndUser(sessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	rollups, err := s.recordRepo.GroupByArticle(sessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]report.InventoryLine, 0, len(rollups))
	for _, r := range rollups {
		lines = append(lines, report.InventoryLine{
			SAPArticle:    r.SAPArticle,
			PartNumber:    r.PartNumber,
			Description:   r.Description,
			Category:      r.DetectedCategory,
			TotalQuantity: r.TotalQuantity,
			ScanCount:     r.ScanCount,
		})
	}

	info := report.SessionInfo{
		ID:        session.ID.String(),
		Mode:      string(session.Mode),
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
	}
	s.log.WithField("session_id", sessionID).Info("generating inventory export")
	return report.GenerateInventoryExcel(info, lines)
}
