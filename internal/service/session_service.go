package service

import (
	"errors"
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
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionInactive  = errors.New("session is not active")
	ErrBOMNotFound      = errors.New("bom not found")
	ErrCategoryRequired = errors.New("category required for BOM mode")
	ErrBOMIDRequired    = errors.New("bom_id required for BOM mode")
	ErrCategoryMismatch = errors.New("bom category must match session category")
)

type CreateSessionRequest struct {
	Mode     model.SessionMode `json:"mode" validate:"required,oneof=INVENTORY BOM"`
	Category string            `json:"category"`
	BOMID    *uuid.UUID        `json:"bom_id"`
}

type SessionService interface {
	CreateSession(userID uuid.UUID, req *CreateSessionRequest) (*model.ScanSession, error)
	ListSessions(userID uuid.UUID, activeOnly bool) ([]model.ScanSessionResponse, error)
	EndSession(userID, sessionID uuid.UUID) (*model.ScanSession, error)
	DeleteSession(userID, sessionID uuid.UUID) error
	GetOverview(userID uuid.UUID) (*Overview, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	recordRepo  repository.RecordRepository
	bomRepo     repository.BOMRepository
	hub         *broadcast.Hub
	log         *logrus.Logger
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	recordRepo repository.RecordRepository,
	bomRepo repository.BOMRepository,
	hub *broadcast.Hub,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		recordRepo:  recordRepo,
		bomRepo:     bomRepo,
		hub:         hub,
		log:         logger.Get(),
	}
}

// CreateSession validates the mode-specific invariants: BOM mode requires a
// category and a bom_id whose BOM carries the same category; INVENTORY mode
// never stores a category on the session, only per-scan detected categories.
func (s *sessionService) CreateSession(userID uuid.UUID, req *CreateSessionRequest) (*model.ScanSession, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	switch req.Mode {
	case model.ModeBOM:
		if req.Category == "" {
			return nil, ErrCategoryRequired
		}
		if req.BOMID == nil {
			return nil, ErrBOMIDRequired
		}
		bom, err := s.bomRepo.FindByID(*req.BOMID)
		if err != nil {
			return nil, ErrBOMNotFound
		}
		if bom.Category != req.Category {
			return nil, ErrCategoryMismatch
		}
	case model.ModeInventory:
		req.Category = ""
		req.BOMID = nil
	}

	session := &model.ScanSession{
		UserID:    userID,
		Mode:      req.Mode,
		Category:  req.Category,
		BOMID:     req.BOMID,
		StartedAt: time.Now().UTC(),
		IsActive:  true,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"user_id":    userID,
		"mode":       session.Mode,
	}).Info("scan session created")
	return session, nil
}

func (s *sessionService) ListSessions(userID uuid.UUID, activeOnly bool) ([]model.ScanSessionResponse, error) {
	sessions, err := s.sessionRepo.FindByUser(userID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ScanSessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, sessions[i].ToResponse())
	}
	return responses, nil
}

// EndSession is one-way: an ended session cannot be reactivated.
func (s *sessionService) EndSession(userID, sessionID uuid.UUID) (*model.ScanSession, error) {
	session, err := s.sessionRepo.FindByIDAndUser(sessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsActive {
		return nil, ErrSessionInactive
	}

	now := time.Now().UTC()
	session.IsActive = false
	session.EndedAt = &now
	if err := s.sessionRepo.Save(session); err != nil {
		return nil, err
	}

	s.log.WithField("session_id", sessionID).Info("scan session ended")
	return session, nil
}

// DeleteSession hard-deletes the session and all of its records, then
// broadcasts session_deleted. The event goes out only after the delete commits.
func (s *sessionService) DeleteSession(userID, sessionID uuid.UUID) error {
	if _, err := s.sessionRepo.FindByIDAndUser(sessionID, userID); err != nil {
		return ErrSessionNotFound
	}
	if err := s.sessionRepo.DeleteCascade(sessionID); err != nil {
		return err
	}

	s.hub.Broadcast(broadcast.Event{
		Type:      broadcast.EventSessionDeleted,
		SessionID: sessionID,
	})
	s.log.WithField("session_id", sessionID).Info("scan session deleted")
	return nil
}

// Overview is the dashboard snapshot: one block per category known to the BOM
// store, plus a block for INVENTORY-mode sessions.
type Overview struct {
	Categories []CategoryOverview `json:"categories"`
	Inventory  InventoryOverview  `json:"inventory"`
}

type CategoryOverview struct {
	Category       string            `json:"category"`
	Status         string            `json:"status"`
	BOM            *BOMInfo          `json:"bom,omitempty"`
	ActiveSessions []SessionActivity `json:"active_sessions"`
	LastSession    *SessionBrief     `json:"last_session,omitempty"`
	Progress       *SessionProgress  `json:"progress,omitempty"`
}

type InventoryOverview struct {
	Status         string            `json:"status"`
	ActiveSessions []SessionActivity `json:"active_sessions"`
	LastSession    *SessionBrief     `json:"last_session,omitempty"`
}

type BOMInfo struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ItemsCount int       `json:"items_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type SessionBrief struct {
	ID        uuid.UUID         `json:"id"`
	Mode      model.SessionMode `json:"mode"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   *time.Time        `json:"ended_at,omitempty"`
	IsActive  bool              `json:"is_active"`
}

type SessionActivity struct {
	ID            uuid.UUID         `json:"id"`
	Mode          model.SessionMode `json:"mode"`
	StartedAt     time.Time         `json:"started_at"`
	BOMName       string            `json:"bom_name,omitempty"`
	ScannedItems  int64             `json:"scanned_items"`
	ExpectedItems int64             `json:"expected_items,omitempty"`
	MatchCount    int64             `json:"match_count"`
	OverCount     int64             `json:"over_count"`
	UnderCount    int64             `json:"under_count"`
}

type SessionProgress struct {
	ScannedItems  int64 `json:"scanned_items"`
	ExpectedItems int64 `json:"expected_items,omitempty"`
	MatchCount    int64 `json:"match_count"`
	OverCount     int64 `json:"over_count"`
	UnderCount    int64 `json:"under_count"`
}

func (s *sessionService) GetOverview(userID uuid.UUID) (*Overview, error) {
	categories, err := s.bomRepo.Categories()
	if err != nil {
		return nil, err
	}

	overview := &Overview{Categories: make([]CategoryOverview, 0, len(categories))}

	for _, category := range categories {
		block, err := s.categoryOverview(userID, category)
		if err != nil {
			return nil, err
		}
		overview.Categories = append(overview.Categories, *block)
	}

	inventory, err := s.inventoryOverview(userID)
	if err != nil {
		return nil, err
	}
	overview.Inventory = *inventory

	return overview, nil
}

func (s *sessionService) categoryOverview(userID uuid.UUID, category string) (*CategoryOverview, error) {
	block := &CategoryOverview{
		Category:       category,
		Status:         "not_started",
		ActiveSessions: []SessionActivity{},
	}

	if bom, err := s.bomRepo.FindCurrentByCategory(category); err == nil {
		block.BOM = &BOMInfo{
			ID:         bom.ID,
			Name:       bom.Name,
			ItemsCount: len(bom.Items),
			UploadedAt: bom.UploadedAt,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	active, err := s.sessionRepo.FindActiveByCategory(userID, category)
	if err != nil {
		return nil, err
	}

	if len(active) > 0 {
		block.Status = "in_progress"
		progress := &SessionProgress{}
		for i := range active {
			activity, err := s.sessionActivity(&active[i])
			if err != nil {
				return nil, err
			}
			block.ActiveSessions = append(block.ActiveSessions, *activity)
			progress.ScannedItems += activity.ScannedItems
			progress.ExpectedItems += activity.ExpectedItems
			progress.MatchCount += activity.MatchCount
			progress.OverCount += activity.OverCount
			progress.UnderCount += activity.UnderCount
		}
		block.Progress = progress
	}

	if last, err := s.sessionRepo.FindLastByCategory(userID, category); err == nil {
		block.LastSession = &SessionBrief{
			ID:        last.ID,
			Mode:      last.Mode,
			StartedAt: last.StartedAt,
			EndedAt:   last.EndedAt,
			IsActive:  last.IsActive,
		}
		if len(active) == 0 && !last.IsActive {
			block.Status = "completed"
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return block, nil
}

func (s *sessionService) sessionActivity(session *model.ScanSession) (*SessionActivity, error) {
	scanned, err := s.recordRepo.Count(session.ID)
	if err != nil {
		return nil, err
	}
	match, err := s.recordRepo.CountByStatus(session.ID, model.StatusMatch)
	if err != nil {
		return nil, err
	}
	over, err := s.recordRepo.CountByStatus(session.ID, model.StatusOver)
	if err != nil {
		return nil, err
	}
	under, err := s.recordRepo.CountByStatus(session.ID, model.StatusUnder)
	if err != nil {
		return nil, err
	}

	activity := &SessionActivity{
		ID:           session.ID,
		Mode:         session.Mode,
		StartedAt:    session.StartedAt,
		ScannedItems: scanned,
		MatchCount:   match,
		OverCount:    over,
		UnderCount:   under,
	}
	if session.BOM != nil {
		activity.BOMName = session.BOM.Name
	}
	if session.BOMID != nil {
		expected, err := s.bomRepo.CountItems(*session.BOMID)
		if err != nil {
			return nil, err
		}
		activity.ExpectedItems = expected
	}
	return activity, nil
}

// inventoryOverview classifies an INVENTORY session's grouped totals against
// each category's current BOM: a grouped article with no category or no BOM
// entry counts as OVER, matching the engine's unlisted-article policy.
func (s *sessionService) inventoryOverview(userID uuid.UUID) (*InventoryOverview, error) {
	block := &InventoryOverview{
		Status:         "not_started",
		ActiveSessions: []SessionActivity{},
	}

	active, err := s.sessionRepo.FindActiveByMode(userID, model.ModeInventory)
	if err != nil {
		return nil, err
	}

	currentBOMs := map[string]*model.BOM{}
	if len(active) > 0 {
		categories, err := s.bomRepo.Categories()
		if err != nil {
			return nil, err
		}
		for _, category := range categories {
			if bom, err := s.bomRepo.FindCurrentByCategory(category); err == nil {
				currentBOMs[category] = bom
			}
		}
	}

	if len(active) > 0 {
		block.Status = "in_progress"
		for i := range active {
			session := &active[i]
			scanned, err := s.recordRepo.Count(session.ID)
			if err != nil {
				return nil, err
			}
			totals, err := s.recordRepo.ArticleTotals(session.ID)
			if err != nil {
				return nil, err
			}

			activity := SessionActivity{
				ID:           session.ID,
				Mode:         session.Mode,
				StartedAt:    session.StartedAt,
				ScannedItems: scanned,
			}
			for _, total := range totals {
				bom, ok := currentBOMs[total.DetectedCategory]
				if !ok {
					activity.OverCount++
					continue
				}
				item, err := s.bomRepo.FindItem(bom.ID, total.SAPArticle)
				if err != nil {
					activity.OverCount++
					continue
				}
				activity.ExpectedItems++
				switch {
				case total.TotalQuantity == item.Quantity:
					activity.MatchCount++
				case total.TotalQuantity > item.Quantity:
					activity.OverCount++
				default:
					activity.UnderCount++
				}
			}
			block.ActiveSessions = append(block.ActiveSessions, activity)
		}
	}

	if last, err := s.sessionRepo.FindLastByMode(userID, model.ModeInventory); err == nil {
		block.LastSession = &SessionBrief{
			ID:        last.ID,
			Mode:      last.Mode,
			StartedAt: last.StartedAt,
			EndedAt:   last.EndedAt,
			IsActive:  last.IsActive,
		}
		if len(active) == 0 && !last.IsActive {
			block.Status = "completed"
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return block, nil
}
