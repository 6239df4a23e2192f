package repository

import (
	"imposter_web/internal/repository/models"
	"imposter_web/internal/storage"
)

// SessionRepository 定義場次歷史的存取介面
type SessionRepository interface {
	Save(session *models.Session) error
	FindAll() ([]models.Session, error)
	FindByID(id string) (*models.Session, error)
}

type sessionRepository struct {
	db *storage.PostgresDB
}

// NewSessionRepository 建立以 PostgreSQL 為後端的場次存取層
func NewSessionRepository(db *storage.PostgresDB) SessionRepository {
	return &sessionRepository{db: db}
}

// Save 寫入場次，相同 ID 的舊紀錄會被整筆取代
func (r *sessionRepository) Save(session *models.Session) error {
	return r.db.Save(session).Error
}

// FindAll 查詢所有場次，由新到舊
func (r *sessionRepository) FindAll() ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) FindByID(id string) (*models.Session, error) {
	var session models.Session
	err := r.db.First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
