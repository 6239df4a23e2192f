package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"imposter_web/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 跨來源檢查交給 CORS 中介層，房間本身沒有身份概念
	},
}

// WebSocketHandler 處理 WebSocket 連線
type WebSocketHandler struct {
	relay *service.RelayService
}

// NewWebSocketHandler 建立一個新的 WebSocketHandler 實例
func NewWebSocketHandler(relay *service.RelayService) *WebSocketHandler {
	return &WebSocketHandler{relay: relay}
}

// HandleWebSocket 把 HTTP 連線升級為 WebSocket 並交給中繼服務
// 中繼服務會阻塞到連線結束，斷線處理也在其中完成
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "websocket upgrade failed"})
		return
	}
	h.relay.HandleConnection(conn)
}
