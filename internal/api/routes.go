package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"imposter_web/internal/api/handlers"
	"imposter_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, allowedOrigins []string) {
	// 初始化 handlers
	wsHandler := handlers.NewWebSocketHandler(services.Relay)
	sessionHandler := handlers.NewSessionHandler(services.Sessions)

	// 跨來源設定，允許名單來自設定檔
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsConfig))

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "route not found",
		})
	})

	// WebSocket 連接點，create_room / join_room 等指令都在這條連線上處理
	r.GET("/ws", wsHandler.HandleWebSocket)

	// API 路由群組
	api := r.Group("/api")
	{
		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"rooms":  services.Store.Count(),
			})
		})

		// 場次歷史
		api.GET("/sessions", sessionHandler.ListSessions)
		api.POST("/sessions", sessionHandler.SaveSession)
		api.GET("/sessions/stats", sessionHandler.SessionStats)
	}
}
