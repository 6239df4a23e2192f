// Package client 是連向中繼伺服器的同步轉接器。
//
// 提供 create/join/patch/leave 等命令式操作，並把伺服器推來的事件
// 合併成可讀取的本地快照（目前房間、連線狀態、最後的錯誤）。
// 入站事件由單一讀取迴圈依序套用，呼叫端不需要處理競態。
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"imposter_web/internal/game"
	"imposter_web/internal/models"
)

// ErrConnectionLost 表示傳輸層連線已中斷
// 轉接器不會自動重連，由使用者重新進入流程
var ErrConnectionLost = errors.New("Connection lost")

// ErrNotInRoom 表示操作需要先加入房間
var ErrNotInRoom = errors.New("not in a room")

// 單次請求的等待上限，沒有重試機制，逾時直接回報
const requestTimeout = 5 * time.Second

// Client 是一條連往中繼伺服器的客戶端連線
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex // 序列化所有出站寫入

	mu        sync.RWMutex
	room      *models.Room
	connID    string
	connected bool
	lastErr   error

	pendingMu sync.Mutex
	pending   map[string]chan models.CommandResult

	updates      chan struct{}
	welcomed     chan struct{}
	welcomedOnce sync.Once
	closed       chan struct{}
	closeOnce    sync.Once
}

// Dial 連向中繼伺服器並等待連線識別碼指派完成
func Dial(serverURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}

	c := &Client{
		conn:     conn,
		pending:  make(map[string]chan models.CommandResult),
		updates:  make(chan struct{}, 16),
		welcomed: make(chan struct{}),
		closed:   make(chan struct{}),
	}
	go c.readLoop()

	select {
	case <-c.welcomed:
		return c, nil
	case <-c.closed:
		return nil, ErrConnectionLost
	case <-time.After(requestTimeout):
		c.Leave()
		return nil, errors.New("timed out waiting for connection id")
	}
}

// CreateRoom 建立新房間，本端成為主持人
func (c *Client) CreateRoom(playerName string) (*models.Room, error) {
	return c.request(models.TypeCreateRoom, models.CreateRoomRequest{PlayerName: playerName})
}

// JoinRoom 以房間代碼加入既有房間
func (c *Client) JoinRoom(roomCode, playerName string) (*models.Room, error) {
	return c.request(models.TypeJoinRoom, models.JoinRoomRequest{RoomCode: roomCode, PlayerName: playerName})
}

// UpdateGameState 把狀態補丁推給中繼伺服器（fire-and-forget）
// 只有主持人的補丁會被伺服器接受；本地快照先行合併
func (c *Client) UpdateGameState(patch models.StatePatch) error {
	c.mu.Lock()
	if c.room == nil {
		c.mu.Unlock()
		return ErrNotInRoom
	}
	roomCode := c.room.Code
	c.room.State.Merge(patch)
	c.mu.Unlock()

	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode state patch: %w", err)
	}
	return c.send(models.TypeUpdateGameState, "", models.UpdateStateRequest{RoomCode: roomCode, Patch: raw})
}

// CastVote 送出本端玩家的投票意向
// 伺服器會把票寫進本連線對應的欄位並轉發給其他成員
func (c *Client) CastVote(target int) error {
	c.mu.Lock()
	if c.room == nil {
		c.mu.Unlock()
		return ErrNotInRoom
	}
	roomCode := c.room.Code
	// 樂觀更新自己的快照，伺服器廣播會略過送出者
	if idx := c.room.MemberIndex(c.connID); idx >= 0 && idx < len(c.room.State.Votes) {
		c.room.State.Votes[idx] = target
	}
	c.mu.Unlock()

	return c.send(models.TypeCastVote, "", models.CastVoteRequest{RoomCode: roomCode, Target: target})
}

// Leave 離開房間並關閉連線，伺服器端的斷線處理負責後續清理
func (c *Client) Leave() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	c.conn.Close()

	c.mu.Lock()
	c.room = nil
	c.connected = false
	c.mu.Unlock()
}

// Sink 回傳把補丁送往中繼伺服器的 game.Sink
// 主持人端把它接上 Match，單機與線上就共用同一套回合邏輯
func (c *Client) Sink() game.Sink {
	return relaySink{c}
}

type relaySink struct{ c *Client }

func (s relaySink) Push(patch models.StatePatch) error {
	return s.c.UpdateGameState(patch)
}

// Room 回傳目前房間的快照，尚未加入房間時為 nil
func (c *Client) Room() *models.Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.room == nil {
		return nil
	}
	return c.room.Clone()
}

// ConnectionID 回傳伺服器指派的連線識別碼
func (c *Client) ConnectionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connID
}

// Connected 回報連線是否仍然存活
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Err 回傳最後一次發生的錯誤
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// IsHost 回報本端是否為目前房間的主持人
func (c *Client) IsHost() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room != nil && c.room.HostConnectionID == c.connID
}

// Updates 在每次快照變動時收到一個訊號，供 UI 重新渲染
// 訊號可能合併，讀取端應該重讀快照而不是計數
func (c *Client) Updates() <-chan struct{} {
	return c.updates
}

func (c *Client) request(msgType string, payload any) (*models.Room, error) {
	requestID := uuid.NewString()
	resultChan := make(chan models.CommandResult, 1)

	c.pendingMu.Lock()
	c.pending[requestID] = resultChan
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, requestID)
		c.pendingMu.Unlock()
	}()

	if err := c.send(msgType, requestID, payload); err != nil {
		return nil, err
	}

	select {
	case result := <-resultChan:
		if !result.Success || result.Room == nil {
			err := errors.New(result.Error)
			c.mu.Lock()
			c.lastErr = err
			c.mu.Unlock()
			return nil, err
		}
		c.mu.Lock()
		c.room = result.Room.Clone()
		c.lastErr = nil
		c.mu.Unlock()
		c.signal()
		return result.Room.Clone(), nil

	case <-c.closed:
		return nil, ErrConnectionLost

	case <-time.After(requestTimeout):
		return nil, fmt.Errorf("%s request timed out", msgType)
	}
}

func (c *Client) send(msgType, requestID string, payload any) error {
	message, err := models.Encode(msgType, requestID, payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// readLoop 是唯一處理入站事件的 goroutine，事件依序套用到快照
func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			c.connected = false
			if c.lastErr == nil {
				c.lastErr = ErrConnectionLost
			}
			c.mu.Unlock()
			c.closeOnce.Do(func() {
				close(c.closed)
			})
			c.signal()
			return
		}

		var envelope models.Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			continue
		}
		c.handleEvent(envelope)
	}
}

func (c *Client) handleEvent(envelope models.Envelope) {
	switch envelope.Type {
	case models.TypeWelcome:
		var welcome models.WelcomePayload
		if err := json.Unmarshal(envelope.Payload, &welcome); err != nil {
			return
		}
		c.mu.Lock()
		c.connID = welcome.ConnectionID
		c.connected = true
		c.mu.Unlock()
		c.welcomedOnce.Do(func() {
			close(c.welcomed)
		})

	case models.TypeCreateRoomResult, models.TypeJoinRoomResult:
		var result models.CommandResult
		if err := json.Unmarshal(envelope.Payload, &result); err != nil {
			return
		}
		c.pendingMu.Lock()
		resultChan, ok := c.pending[envelope.RequestID]
		c.pendingMu.Unlock()
		if ok {
			resultChan <- result
		}

	case models.TypeRoomUpdate:
		var room models.Room
		if err := json.Unmarshal(envelope.Payload, &room); err != nil {
			return
		}
		c.mu.Lock()
		c.room = &room
		c.mu.Unlock()
		c.signal()

	case models.TypeGameStateUpdate:
		patch, err := models.DecodePatch(envelope.Payload)
		if err != nil {
			return
		}
		c.mu.Lock()
		if c.room != nil {
			c.room.State.Merge(patch)
			if c.room.State.Phase != models.PhaseLobby {
				c.room.Status = models.RoomStatusPlaying
			}
		}
		c.mu.Unlock()
		c.signal()

	case models.TypeRoomClosed:
		var closedPayload models.RoomClosedPayload
		if err := json.Unmarshal(envelope.Payload, &closedPayload); err != nil {
			return
		}
		c.mu.Lock()
		c.room = nil
		c.lastErr = fmt.Errorf("room closed: %s", closedPayload.Reason)
		c.mu.Unlock()
		c.signal()
	}
}

// signal 非阻塞地通知快照已變動，通道滿了就合併訊號
func (c *Client) signal() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
