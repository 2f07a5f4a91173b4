package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lunch_vote/internal/utils"
)

// sessionIDKey 是 gin context 中存放 sessionID 的鍵
const sessionIDKey = "sessionID"

// Session 在第一次 REST 請求時發放簽章過的 session cookie
// 客戶端必須先走 REST 流程拿到 cookie，之後的 WebSocket 升級才能被識別
func Session(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(utils.SessionCookieName); err == nil {
			if sessionID, err := utils.ParseSessionToken(secret, cookie); err == nil {
				c.Set(sessionIDKey, sessionID)
				c.Next()
				return
			}
			// 簽章不符視同沒有 cookie，重新發放
		}

		sessionID := uuid.NewString()
		token, err := utils.NewSessionToken(secret, sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "建立 session 失敗"})
			c.Abort()
			return
		}

		c.SetCookie(utils.SessionCookieName, token, 240*3600, "/", "", false, true)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// RequireSession 驗證請求帶有合法的 session cookie，否則拒絕
// WebSocket 升級端點使用這個版本：無法歸屬到使用者的連線直接拒絕，不補發
func RequireSession(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(utils.SessionCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少 session cookie"})
			c.Abort()
			return
		}

		sessionID, err := utils.ParseSessionToken(secret, cookie)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "無效的 session cookie"})
			c.Abort()
			return
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID 從 gin context 取出已解析的 sessionID
func SessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(sessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := sessionID.(string)
	return id, ok
}
