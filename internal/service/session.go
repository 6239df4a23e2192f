package service

import (
	"encoding/json"
	"fmt"

	"imposter_web/internal/models"
	"imposter_web/internal/repository"
	rmodels "imposter_web/internal/repository/models"
)

// SessionService 提供場次歷史的儲存與讀取
// 這是規格中 load/save 持久化介面的伺服器端實作；場次一經儲存即不可變，
// 不會與其他場次合併
type SessionService struct {
	sessionRepo repository.SessionRepository
}

// NewSessionService 建立場次歷史服務
func NewSessionService(sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

// Save 儲存一個完成的場次，相同 ID 重複儲存會整筆取代
func (s *SessionService) Save(session models.Session) error {
	row, err := s.convertSessionToModel(session)
	if err != nil {
		return err
	}
	return s.sessionRepo.Save(row)
}

// Load 讀取所有歷史場次，由新到舊
func (s *SessionService) Load() ([]models.Session, error) {
	rows, err := s.sessionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	sessions := make([]models.Session, 0, len(rows))
	for _, row := range rows {
		session, err := s.convertModelToSession(row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *SessionService) convertSessionToModel(session models.Session) (*rmodels.Session, error) {
	rounds, err := json.Marshal(session.Rounds)
	if err != nil {
		return nil, fmt.Errorf("encode session rounds: %w", err)
	}
	return &rmodels.Session{
		ID:        session.ID,
		StartedAt: session.StartedAt,
		Rounds:    rounds,
	}, nil
}

func (s *SessionService) convertModelToSession(row rmodels.Session) (models.Session, error) {
	var rounds []models.RoundResult
	if len(row.Rounds) > 0 {
		if err := json.Unmarshal(row.Rounds, &rounds); err != nil {
			return models.Session{}, fmt.Errorf("decode session rounds: %w", err)
		}
	}
	return models.Session{
		ID:        row.ID,
		StartedAt: row.StartedAt,
		Rounds:    rounds,
	}, nil
}
