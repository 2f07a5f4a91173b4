package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lunch_vote/internal/api/handlers"
	"lunch_vote/internal/middleware"
	"lunch_vote/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, cookieSecret string) {
	// 初始化 handlers
	roomHandler := handlers.NewRoomHandler(services.Room)
	wsHandler := handlers.NewWebSocketHandler(services.Gateway)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 基本的健康檢查
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// REST 路由：第一次請求時發放 session cookie
	// 客戶端必須先走這裡，socket 升級才有身分可驗
	rooms := api.Group("/rooms")
	rooms.Use(middleware.Session(cookieSecret))
	{
		rooms.POST("", roomHandler.CreateRoom)           // 建立房間
		rooms.GET("/:code", roomHandler.GetRoom)         // 取得房間資訊
		rooms.GET("/:code/valid", roomHandler.ValidRoom) // 確認房間代碼存在
	}

	// WebSocket 升級端點：cookie 無效就拒絕升級，不補發
	ws := api.Group("/ws")
	ws.Use(middleware.RequireSession(cookieSecret))
	{
		ws.GET("/rooms/:code", wsHandler.HandleWebSocket)
	}
}
