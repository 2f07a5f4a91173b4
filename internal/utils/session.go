package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// SessionCookieName 是瀏覽器端 session cookie 的名稱
const SessionCookieName = "room_session"

// ErrInvalidSession 表示 session token 缺失、過期或簽章不符
var ErrInvalidSession = errors.New("invalid session token")

type SessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.StandardClaims
}

// NewSessionToken 將 sessionID 簽成放進 cookie 的 token
// 同一個瀏覽器之後的每次連線（含 WebSocket 升級）都會帶著它
func NewSessionToken(secret, sessionID string) (string, error) {
	nowTime := time.Now()
	expireTime := nowTime.Add(240 * time.Hour)

	claims := SessionClaims{
		SessionID: sessionID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  nowTime.Unix(),
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString([]byte(secret))
}

// ParseSessionToken 驗證 token 簽章並取出 sessionID
func ParseSessionToken(secret, token string) (string, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if tokenClaims != nil {
		if claims, ok := tokenClaims.Claims.(*SessionClaims); ok && tokenClaims.Valid {
			return claims.SessionID, nil
		}
	}

	if err != nil {
		return "", err
	}
	return "", ErrInvalidSession
}
