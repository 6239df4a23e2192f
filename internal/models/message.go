package models

import (
	"encoding/json"
	"fmt"
)

// 客戶端送往伺服器的指令類型
const (
	TypeCreateRoom      = "create_room"
	TypeJoinRoom        = "join_room"
	TypeUpdateGameState = "update_game_state"
	TypeCastVote        = "cast_vote"
)

// 伺服器送往客戶端的事件類型
const (
	TypeWelcome          = "welcome"
	TypeCreateRoomResult = "create_room_result"
	TypeJoinRoomResult   = "join_room_result"
	TypeRoomUpdate       = "room_update"
	TypeGameStateUpdate  = "game_state_update"
	TypeRoomClosed       = "room_closed"
)

// Envelope 是 WebSocket 上所有訊息的統一外層
// RequestID 只在請求/回應式的指令上使用，廣播事件不帶
type Envelope struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Encode 將訊息內容包進外層並序列化
func Encode(msgType, requestID string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
		}
		raw = b
	}
	return json.Marshal(Envelope{Type: msgType, RequestID: requestID, Payload: raw})
}

// WelcomePayload 在連線建立後告知客戶端其連線識別碼
type WelcomePayload struct {
	ConnectionID string `json:"connection_id"`
}

// CreateRoomRequest 是建立房間的指令內容
type CreateRoomRequest struct {
	PlayerName string `json:"player_name"`
}

// JoinRoomRequest 是加入房間的指令內容
type JoinRoomRequest struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

// UpdateStateRequest 是主持人推送狀態補丁的指令內容
// Patch 保持原始 JSON，由伺服器做結構檢查後合併
type UpdateStateRequest struct {
	RoomCode string          `json:"room_code"`
	Patch    json.RawMessage `json:"patch"`
}

// CastVoteRequest 是非主持人端的投票意向
// 伺服器只會把票寫進送出者自己的欄位
type CastVoteRequest struct {
	RoomCode string `json:"room_code"`
	Target   int    `json:"target"`
}

// CommandResult 是 create_room / join_room 的回應內容
type CommandResult struct {
	Success bool   `json:"success"`
	Room    *Room  `json:"room,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RoomClosedPayload 在房間被拆除時通知剩餘成員
type RoomClosedPayload struct {
	Reason string `json:"reason"`
}
