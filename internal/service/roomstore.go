package service

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"imposter_web/internal/models"
)

// 房間代碼使用 26 個大寫字母加 10 個數字，固定 6 碼
const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 6
)

// 加入房間會失敗的情況，錯誤訊息會原封不動回給使用者
var (
	ErrRoomNotFound   = errors.New("Room not found")
	ErrGameInProgress = errors.New("Game already in progress")
	ErrNameTaken      = errors.New("Name already taken in this room")
)

// RemovalResult 描述一次成員移除的結果
type RemovalResult struct {
	Room    *models.Room // 移除後的房間快照
	WasHost bool
	Deleted bool // 房間是否因此被刪除
}

// RoomStore 是行程內的房間登錄表，只負責生命週期，不含回合邏輯
// 房間不做任何持久化，伺服器重啟後全部消失
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
	rng   *rand.Rand
}

// NewRoomStore 建立一個空的房間登錄表
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*models.Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// generateCode 產生不與現有房間衝突的房間代碼
// 代碼空間有 36^6 組，衝突機率極低，但仍然逐一檢查並在衝突時重抽
func (s *RoomStore) generateCode() string {
	for {
		b := make([]byte, roomCodeLength)
		for i := range b {
			b[i] = roomCodeAlphabet[s.rng.Intn(len(roomCodeAlphabet))]
		}
		code := string(b)
		if _, exists := s.rooms[code]; !exists {
			return code
		}
	}
}

// CreateRoom 建立新房間，建立者即主持人
func (s *RoomStore) CreateRoom(hostConnID, hostName string) *models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := &models.Room{
		Code:             s.generateCode(),
		HostConnectionID: hostConnID,
		Members: []models.RoomMember{
			{ConnectionID: hostConnID, Name: hostName, IsHost: true},
		},
		Status: models.RoomStatusLobby,
		State:  models.NewRoundState(),
	}
	s.rooms[room.Code] = room
	return room.Clone()
}

// JoinRoom 將連線加入房間，成員依加入順序排列
func (s *RoomStore) JoinRoom(code, connID, name string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.Status != models.RoomStatusLobby {
		return nil, ErrGameInProgress
	}
	if room.HasName(name) {
		return nil, ErrNameTaken
	}
	room.Members = append(room.Members, models.RoomMember{
		ConnectionID: connID,
		Name:         name,
	})
	return room.Clone(), nil
}

// Get 回傳房間快照
func (s *RoomStore) Get(code string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room.Clone(), nil
}

// RemoveMember 依連線識別碼移除成員，是房間因斷線而消失的唯一路徑
// 房間變空或主持人離開都會刪除房間（主持人不做移交）
// 對已移除的連線重複呼叫是 no-op，回傳 nil
func (s *RoomStore) RemoveMember(connID string) *RemovalResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, room := range s.rooms {
		idx := room.MemberIndex(connID)
		if idx < 0 {
			continue
		}
		wasHost := room.Members[idx].IsHost
		room.Members = append(room.Members[:idx], room.Members[idx+1:]...)

		deleted := wasHost || len(room.Members) == 0
		if deleted {
			delete(s.rooms, code)
		}
		return &RemovalResult{Room: room.Clone(), WasHost: wasHost, Deleted: deleted}
	}
	return nil
}

// PatchState 把補丁合併進房間的共享狀態並回傳更新後的快照
// 已有欄位的值被補丁覆寫，補丁沒帶的欄位保留；一旦階段離開 lobby，
// 房間狀態隨之切換為 playing
func (s *RoomStore) PatchState(code string, patch models.StatePatch) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.State.Merge(patch)
	if room.State.Phase != models.PhaseLobby {
		room.Status = models.RoomStatusPlaying
	}
	return room.Clone(), nil
}

// Count 回傳目前存活的房間數
func (s *RoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
