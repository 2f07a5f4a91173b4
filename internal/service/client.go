package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lunch_vote/internal/models"
)

// ConnState 是單一連線的狀態
// 升級成功後為 Joining，connectRoom 成功後為 Joined，斷線後為 Closed
type ConnState int

const (
	StateJoining ConnState = iota
	StateJoined
	StateClosed
)

// Client 代表一個 WebSocket 連線與其握手時附加的屬性
// UserID 與 RoomCode 只由這條連線自己的 goroutine 讀寫，
// 跨連線的協調一律經過 roomstate.Store
type Client struct {
	ID       string               // 連線識別碼，每條實體連線一個
	UserID   string               // session 解析出的使用者識別碼，多條連線可共用
	RoomCode string               // connectRoom 成功後才有值
	State    ConnState
	conn     *websocket.Conn
	Send     chan models.OutEvent // 消息發送通道，用於異步傳送消息
}

// NewClient 建立一個剛完成握手的連線
func NewClient(conn *websocket.Conn, userID string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		State:  StateJoining,
		conn:   conn,
		Send:   make(chan models.OutEvent, 256),
	}
}

// HandleConnection 接手一條升級完成的 WebSocket 連線，直到斷線才返回
func (g *Gateway) HandleConnection(conn *websocket.Conn, userID string) {
	client := NewClient(conn, userID)

	g.logger.Debug().Str("connId", client.ID).Str("userId", userID).Msg("client connected")

	// 確保連接關閉時清理資源
	defer func() {
		emissions := g.Disconnect(context.Background(), client)
		g.Dispatch(client, emissions)
		conn.Close()
		close(client.Send)
		g.logger.Debug().Str("connId", client.ID).Str("userId", userID).Msg("client disconnected")
	}()

	go g.writePump(client)
	g.readPump(client)
}

// readPump 持續監聽並處理從客戶端接收的消息
func (g *Gateway) readPump(client *Client) {
	client.conn.SetReadLimit(4096)
	client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				g.logger.Warn().Err(err).Str("connId", client.ID).Msg("websocket unexpected close error")
			}
			break
		}

		// 解析接收到的消息
		var evt models.Event
		if err := json.Unmarshal(message, &evt); err != nil {
			g.logger.Warn().Err(err).Str("connId", client.ID).Msg("message parse error")
			continue
		}

		emissions := g.HandleEvent(context.Background(), client, evt)
		g.Dispatch(client, emissions)
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (g *Gateway) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.Send:
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := client.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			messageBytes, err := json.Marshal(message)
			if err != nil {
				g.logger.Error().Err(err).Msg("message encoding error")
				continue
			}

			if _, err := w.Write(messageBytes); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
