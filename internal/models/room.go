package models

import "strings"

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusLobby   RoomStatus = "lobby"   // 等待玩家加入
	RoomStatusPlaying RoomStatus = "playing" // 回合進行中
)

// RoomMember 表示房間內的一位成員
// ConnectionID 是連線層級的識別碼，系統沒有其他身份概念
type RoomMember struct {
	ConnectionID string `json:"id"`
	Name         string `json:"name"`
	IsHost       bool   `json:"isHost"`
	Ready        bool   `json:"ready"`
}

// Room 表示一個線上遊戲房間
// Members 依加入順序排列，建立時 Members[0] 即主持人
type Room struct {
	Code             string       `json:"code"`
	HostConnectionID string       `json:"host"`
	Members          []RoomMember `json:"members"`
	Status           RoomStatus   `json:"status"`
	State            RoundState   `json:"state"`
}

// MemberIndex 回傳連線在成員列表中的位置，不存在時回傳 -1
// 這個位置同時是回合狀態裡的玩家位置
func (r *Room) MemberIndex(connectionID string) int {
	for i, m := range r.Members {
		if m.ConnectionID == connectionID {
			return i
		}
	}
	return -1
}

// HasName 檢查顯示名稱是否已被占用（不分大小寫）
func (r *Room) HasName(name string) bool {
	for _, m := range r.Members {
		if strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

// Clone 回傳房間的深拷貝，呼叫端拿到的快照不會被後續更新改動
func (r *Room) Clone() *Room {
	cp := *r
	cp.Members = append([]RoomMember(nil), r.Members...)
	cp.State = *r.State.Clone()
	return &cp
}
