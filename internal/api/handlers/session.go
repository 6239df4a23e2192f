package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"imposter_web/internal/game"
	"imposter_web/internal/models"
	"imposter_web/internal/service"
)

// SessionHandler 處理場次歷史相關的請求
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler 建立一個新的 SessionHandler 實例
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// ListSessions 回傳所有歷史場次，由新到舊
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionService.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// SaveSession 儲存一個完成的場次
func (h *SessionHandler) SaveSession(c *gin.Context) {
	var session models.Session
	if err := c.ShouldBindJSON(&session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if session.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	if err := h.sessionService.Save(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "session saved"})
}

// SessionStats 回傳跨場次的統計摘要
func (h *SessionHandler) SessionStats(c *gin.Context) {
	sessions, err := h.sessionService.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, game.Analyze(sessions))
}
