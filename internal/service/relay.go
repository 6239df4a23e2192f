package service

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"imposter_web/internal/models"
)

// RelayService 是房間登錄表之上的事件中繼
// 處理 create_room / join_room / update_game_state / cast_vote 四種指令，
// 並在連線中斷時負責房間的拆除與通知
type RelayService struct {
	store *RoomStore
	ws    *WebSocketManager

	// 指令一律在這把鎖之下處理：補丁依到達順序合併並廣播，
	// 同一房間內的成員不會看到亂序（跨房間不保證順序，也不需要）
	mu sync.Mutex
}

// NewRelayService 建立中繼服務
func NewRelayService(store *RoomStore, ws *WebSocketManager) *RelayService {
	return &RelayService{store: store, ws: ws}
}

// HandleConnection 接手一條升級完成的 WebSocket 連線，阻塞直到連線結束
func (r *RelayService) HandleConnection(conn *websocket.Conn) {
	r.ws.HandleConnection(conn, r.handleMessage, r.handleDisconnect)
}

func (r *RelayService) handleMessage(client *Client, envelope models.Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch envelope.Type {
	case models.TypeCreateRoom:
		r.handleCreateRoom(client, envelope)
	case models.TypeJoinRoom:
		r.handleJoinRoom(client, envelope)
	case models.TypeUpdateGameState:
		r.handleUpdateGameState(client, envelope)
	case models.TypeCastVote:
		r.handleCastVote(client, envelope)
	default:
		log.Printf("unknown message type %q from connection %s", envelope.Type, client.ID)
	}
}

func (r *RelayService) handleCreateRoom(client *Client, envelope models.Envelope) {
	var req models.CreateRoomRequest
	if err := json.Unmarshal(envelope.Payload, &req); err != nil {
		r.reply(client, models.TypeCreateRoomResult, envelope.RequestID,
			models.CommandResult{Success: false, Error: "invalid payload"})
		return
	}

	room := r.store.CreateRoom(client.ID, req.PlayerName)
	r.ws.Subscribe(client, room.Code)
	log.Printf("room %s created by %s", room.Code, req.PlayerName)

	r.reply(client, models.TypeCreateRoomResult, envelope.RequestID,
		models.CommandResult{Success: true, Room: room})
}

func (r *RelayService) handleJoinRoom(client *Client, envelope models.Envelope) {
	var req models.JoinRoomRequest
	if err := json.Unmarshal(envelope.Payload, &req); err != nil {
		r.reply(client, models.TypeJoinRoomResult, envelope.RequestID,
			models.CommandResult{Success: false, Error: "invalid payload"})
		return
	}

	room, err := r.store.JoinRoom(req.RoomCode, client.ID, req.PlayerName)
	if err != nil {
		// 錯誤原文回給使用者，由客戶端顯示後自行重試
		r.reply(client, models.TypeJoinRoomResult, envelope.RequestID,
			models.CommandResult{Success: false, Error: err.Error()})
		return
	}

	r.ws.Subscribe(client, room.Code)
	log.Printf("%s joined room %s", req.PlayerName, room.Code)

	r.reply(client, models.TypeJoinRoomResult, envelope.RequestID,
		models.CommandResult{Success: true, Room: room})

	// 向房間內所有成員（含主持人）廣播完整名單，讓主持人端立即看到新玩家
	r.broadcastRoomUpdate(room)
}

func (r *RelayService) handleUpdateGameState(client *Client, envelope models.Envelope) {
	var req models.UpdateStateRequest
	if err := json.Unmarshal(envelope.Payload, &req); err != nil {
		log.Printf("update_game_state parse error from %s: %v", client.ID, err)
		return
	}

	room, err := r.store.Get(req.RoomCode)
	if err != nil {
		return
	}
	// 主持人的連線識別碼就是房間的唯一寫入權杖，其他連線的補丁一律丟棄
	if room.HostConnectionID != client.ID {
		log.Printf("state patch from non-host connection %s for room %s dropped", client.ID, room.Code)
		return
	}

	patch, err := models.DecodePatch(req.Patch)
	if err != nil {
		log.Printf("state patch rejected for room %s: %v", room.Code, err)
		return
	}
	if _, err := r.store.PatchState(room.Code, patch); err != nil {
		return
	}

	// 只廣播補丁本身給其他連線，送出者已經持有這份補丁
	message, err := models.Encode(models.TypeGameStateUpdate, "", patch)
	if err != nil {
		return
	}
	r.ws.BroadcastToRoomExcept(room.Code, client, message)
}

// handleCastVote 處理非主持人端的投票意向
// 伺服器只會把票寫進送出者自己的欄位，再把更新後的投票陣列當作補丁轉發
func (r *RelayService) handleCastVote(client *Client, envelope models.Envelope) {
	var req models.CastVoteRequest
	if err := json.Unmarshal(envelope.Payload, &req); err != nil {
		log.Printf("cast_vote parse error from %s: %v", client.ID, err)
		return
	}

	room, err := r.store.Get(req.RoomCode)
	if err != nil {
		return
	}
	voter := room.MemberIndex(client.ID)
	if voter < 0 || voter >= len(room.State.Votes) {
		return
	}
	if req.Target < 0 || req.Target >= len(room.State.Votes) || req.Target == voter {
		log.Printf("invalid vote target %d from connection %s dropped", req.Target, client.ID)
		return
	}

	votes := append([]int(nil), room.State.Votes...)
	votes[voter] = req.Target
	patch := models.StatePatch{Votes: &votes}
	if _, err := r.store.PatchState(room.Code, patch); err != nil {
		return
	}

	message, err := models.Encode(models.TypeGameStateUpdate, "", patch)
	if err != nil {
		return
	}
	r.ws.BroadcastToRoomExcept(room.Code, client, message)
}

// handleDisconnect 處理傳輸層的連線中斷，是唯一的取消路徑
func (r *RelayService) handleDisconnect(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.store.RemoveMember(client.ID)
	if result == nil {
		return
	}

	switch {
	case result.WasHost:
		// 主持人離開即拆除房間，先通知剩下的成員再解散廣播群組
		log.Printf("room %s closed, host disconnected", result.Room.Code)
		message, err := models.Encode(models.TypeRoomClosed, "",
			models.RoomClosedPayload{Reason: "Host disconnected"})
		if err == nil {
			r.ws.BroadcastToRoomExcept(result.Room.Code, client, message)
		}
		r.ws.DropRoom(result.Room.Code)

	case result.Deleted:
		// 房間已空，沒有人需要通知
		log.Printf("room %s deleted (empty)", result.Room.Code)

	default:
		r.broadcastRoomUpdate(result.Room)
	}
}

func (r *RelayService) reply(client *Client, msgType, requestID string, result models.CommandResult) {
	message, err := models.Encode(msgType, requestID, result)
	if err != nil {
		log.Printf("message encoding error: %v", err)
		return
	}
	r.ws.Send(client, message)
}

func (r *RelayService) broadcastRoomUpdate(room *models.Room) {
	message, err := models.Encode(models.TypeRoomUpdate, "", room)
	if err != nil {
		log.Printf("message encoding error: %v", err)
		return
	}
	r.ws.BroadcastToRoom(room.Code, message)
}
