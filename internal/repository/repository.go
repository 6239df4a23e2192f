package repository

import "imposter_web/internal/storage"

type Repositories struct {
	Session SessionRepository
}

// NewRepositories 以資料庫為後端建立所有存取層
func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Session: NewSessionRepository(db),
	}
}

// NewMemoryRepositories 建立純記憶體的存取層，未設定資料庫時使用
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Session: NewMemorySessionRepository(),
	}
}
