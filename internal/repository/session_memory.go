package repository

import (
	"errors"
	"sort"
	"sync"

	"imposter_web/internal/repository/models"
)

// ErrSessionNotFound 表示查無指定場次
var ErrSessionNotFound = errors.New("session not found")

// memorySessionRepository 是存放在行程記憶體的場次存取層
// 在沒有設定資料庫時使用，也方便測試
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionRepository 建立記憶體版的場次存取層
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]models.Session)}
}

func (r *memorySessionRepository) Save(session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *memorySessionRepository) FindAll() ([]models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]models.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}

func (r *memorySessionRepository) FindByID(id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}
