package repository

import (
	"go-scanner-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// deleteBatchSize bounds how many records a single cascade-delete statement
// removes, so very large sessions never produce one huge delete.
const deleteBatchSize = 500

type SessionRepository interface {
	Create(session *model.ScanSession) error
	Save(session *model.ScanSession) error
	FindByID(id uuid.UUID) (*model.ScanSession, error)

	// FindByIDAndUser scopes lookup to the owning user; a foreign session is
	// indistinguishable from a missing one.
	FindByIDAndUser(id, userID uuid.UUID) (*model.ScanSession, error)

	FindByUser(userID uuid.UUID, activeOnly bool) ([]model.ScanSession, error)
	FindActiveByCategory(userID uuid.UUID, category string) ([]model.ScanSession, error)
	FindLastByCategory(userID uuid.UUID, category string) (*model.ScanSession, error)
	FindActiveByMode(userID uuid.UUID, mode model.SessionMode) ([]model.ScanSession, error)
	FindLastByMode(userID uuid.UUID, mode model.SessionMode) (*model.ScanSession, error)

	// DeleteCascade hard-deletes a session and all of its records. Records go
	// first, in bounded batches inside the same transaction, so the session
	// row never outlives orphaned children.
	DeleteCascade(id uuid.UUID) error
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db}
}

func (r *sessionRepo) Create(session *model.ScanSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepo) Save(session *model.ScanSession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepo) FindByID(id uuid.UUID) (*model.ScanSession, error) {
	var session model.ScanSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindByIDAndUser(id, userID uuid.UUID) (*model.ScanSession, error) {
	var session model.ScanSession
	if err := r.db.First(&session, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindByUser(userID uuid.UUID, activeOnly bool) ([]model.ScanSession, error) {
	query := r.db.Preload("BOM").Preload("BOM.Items").Preload("Records").
		Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var sessions []model.ScanSession
	if err := query.Order("started_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) FindActiveByCategory(userID uuid.UUID, category string) ([]model.ScanSession, error) {
	var sessions []model.ScanSession
	if err := r.db.Preload("BOM").
		Where("user_id = ? AND category = ? AND is_active = ?", userID, category, true).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) FindLastByCategory(userID uuid.UUID, category string) (*model.ScanSession, error) {
	var session model.ScanSession
	if err := r.db.Where("user_id = ? AND category = ?", userID, category).
		Order("started_at DESC").
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindActiveByMode(userID uuid.UUID, mode model.SessionMode) ([]model.ScanSession, error) {
	var sessions []model.ScanSession
	if err := r.db.Where("user_id = ? AND mode = ? AND is_active = ?", userID, mode, true).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) FindLastByMode(userID uuid.UUID, mode model.SessionMode) (*model.ScanSession, error) {
	var session model.ScanSession
	if err := r.db.Where("user_id = ? AND mode = ?", userID, mode).
		Order("started_at DESC").
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for {
			res := tx.Where("id IN (?)",
				tx.Model(&model.ScanRecord{}).
					Select("id").
					Where("session_id = ?", id).
					Limit(deleteBatchSize),
			).Delete(&model.ScanRecord{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected < deleteBatchSize {
				break
			}
		}
		return tx.Delete(&model.ScanSession{}, "id = ?", id).Error
	})
}
