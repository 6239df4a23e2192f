package service

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"imposter_web/internal/models"
)

// Client 代表一個 WebSocket 客戶端連線
type Client struct {
	ID       string          // 連線識別碼，由伺服器在連線建立時指派
	Conn     *websocket.Conn // WebSocket 連線
	RoomCode string          // 已加入的房間代碼，尚未加入時為空字串
	SendChan chan []byte     // 訊息發送通道，用於異步傳送訊息
	limiter  *rate.Limiter   // 單一連線的訊息速率限制
}

// WebSocketManager 管理所有的 WebSocket 連線與房間廣播群組
type WebSocketManager struct {
	clients    map[string]*Client          // connectionID -> client
	rooms      map[string]map[*Client]bool // 兩層 map: roomCode -> client -> bool
	clientsMux sync.RWMutex                // 用於保護兩個 map 的讀寫鎖
}

// NewWebSocketManager 建立並初始化新的連線管理器
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[*Client]bool),
	}
}

// HandleConnection 處理新的 WebSocket 連線
// 先指派連線識別碼並送出 welcome，之後把每則訊息交給 onMessage，
// 連線中斷時呼叫 onDisconnect 再清理資源
func (m *WebSocketManager) HandleConnection(conn *websocket.Conn,
	onMessage func(*Client, models.Envelope), onDisconnect func(*Client)) {

	client := &Client{
		ID:       uuid.NewString(),
		Conn:     conn,
		SendChan: make(chan []byte, 256), // 設置緩衝大小為 256 的訊息通道
		limiter:  rate.NewLimiter(rate.Limit(20), 40),
	}
	m.addClient(client)

	// 確保連線關閉時清理資源
	defer func() {
		onDisconnect(client)
		m.removeClient(client)
		conn.Close()
		close(client.SendChan)
	}()

	go m.writePump(client)

	// 告知客戶端其連線識別碼
	if welcome, err := models.Encode(models.TypeWelcome, "", models.WelcomePayload{ConnectionID: client.ID}); err == nil {
		m.Send(client, welcome)
	}

	m.readPump(client, onMessage)
}

// readPump 持續監聽並處理從客戶端接收的訊息
func (m *WebSocketManager) readPump(client *Client, onMessage func(*Client, models.Envelope)) {
	client.Conn.SetReadLimit(4096) // 設置最大訊息大小為 4KB
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		// 超過速率限制的訊息直接丟棄
		if !client.limiter.Allow() {
			log.Printf("rate limit exceeded for connection %s, message dropped", client.ID)
			continue
		}

		var envelope models.Envelope
		if err := json.Unmarshal(message, &envelope); err != nil {
			log.Printf("message parse error: %v", err)
			continue
		}
		onMessage(client, envelope)
	}
}

// writePump 處理向客戶端發送訊息的邏輯
func (m *WebSocketManager) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.SendChan:
			// 設置寫入超時
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send 把訊息排進單一客戶端的發送隊列
func (m *WebSocketManager) Send(client *Client, message []byte) {
	select {
	case client.SendChan <- message:
		// 訊息成功加入發送隊列
	default:
		// 客戶端訊息隊列已滿，關閉連線
		client.Conn.Close()
	}
}

// Subscribe 把連線訂閱進房間的廣播群組
func (m *WebSocketManager) Subscribe(client *Client, roomCode string) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.rooms[roomCode] == nil {
		m.rooms[roomCode] = make(map[*Client]bool)
	}
	m.rooms[roomCode][client] = true
	client.RoomCode = roomCode
}

// BroadcastToRoom 向房間內的所有客戶端廣播訊息
func (m *WebSocketManager) BroadcastToRoom(roomCode string, message []byte) {
	m.broadcast(roomCode, message, nil)
}

// BroadcastToRoomExcept 向房間內除了 sender 以外的客戶端廣播訊息
// 送出者已經持有自己剛送出的補丁，不需要再收一次
func (m *WebSocketManager) BroadcastToRoomExcept(roomCode string, sender *Client, message []byte) {
	m.broadcast(roomCode, message, sender)
}

func (m *WebSocketManager) broadcast(roomCode string, message []byte, skip *Client) {
	m.clientsMux.RLock()
	clients := make([]*Client, 0, len(m.rooms[roomCode]))
	for c := range m.rooms[roomCode] {
		if c != skip {
			clients = append(clients, c)
		}
	}
	m.clientsMux.RUnlock()

	for _, c := range clients {
		m.Send(c, message)
	}
}

// DropRoom 解散房間的廣播群組（房間被拆除時）
func (m *WebSocketManager) DropRoom(roomCode string) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	for c := range m.rooms[roomCode] {
		c.RoomCode = ""
	}
	delete(m.rooms, roomCode)
}

// RoomClientCount 回傳指定房間的在線客戶端數量
func (m *WebSocketManager) RoomClientCount(roomCode string) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()
	return len(m.rooms[roomCode])
}

// addClient 安全地登錄新的客戶端連線
func (m *WebSocketManager) addClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()
	m.clients[client.ID] = client
}

// removeClient 安全地移除客戶端連線
func (m *WebSocketManager) removeClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	delete(m.clients, client.ID)
	if clients, ok := m.rooms[client.RoomCode]; ok {
		delete(clients, client)
		// 房間空了就移除廣播群組
		if len(clients) == 0 {
			delete(m.rooms, client.RoomCode)
		}
	}
}
