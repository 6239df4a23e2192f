package models

import "time"

// Session 是場次歷史的資料庫列
// 回合紀錄整串以 JSONB 保存，寫入後不再修改
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	StartedAt time.Time `json:"started_at"`
	Rounds    []byte    `gorm:"type:jsonb" json:"rounds"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
