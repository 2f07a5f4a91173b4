package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lunch_vote/internal/middleware"
	"lunch_vote/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	gateway *service.Gateway
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(gateway *service.Gateway) *WebSocketHandler {
	return &WebSocketHandler{gateway: gateway}
}

// HandleWebSocket 處理 WebSocket 連接請求
// session 驗證由 RequireSession 中間件完成，走到這裡的請求一定帶有合法身分
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失敗時已經回覆了 HTTP 錯誤
		return
	}

	// 接手連線直到斷線，加入房間由 socket 協定的 connectRoom 事件處理
	h.gateway.HandleConnection(conn, sessionID)
}
