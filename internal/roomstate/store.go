// Package roomstate 實作房間共享狀態的存取層。
//
// 每個房間有三張以 roomCode 區隔的邏輯表：
// 加入名單（使用者與其位置、在線狀態）、候選名單（每間餐廳的投票者集合）、
// 餐廳快照（房間建立時寫入，之後唯讀）。
// 所有跨連線的協調都必須經過這一層，協調器本身不保留可信的共享狀態。
package roomstate

import (
	"context"

	"lunch_vote/internal/models"
)

// Store 定義房間共享狀態的操作
//
// 同一個 key 上的操作必須彼此序列化（由後端儲存的單鍵原子性保證），
// 不同房間之間沒有順序要求。Vote/Unvote 只回報結構是否改變，
// 重複投票要不要視為失敗由呼叫端決定。
type Store interface {
	// SeedCatalog 寫入房間的餐廳快照，只在房間建立時呼叫一次
	SeedCatalog(ctx context.Context, roomCode string, list []models.Restaurant) error
	// GetCatalog 讀取房間的餐廳快照
	GetCatalog(ctx context.Context, roomCode string) ([]models.Restaurant, error)

	// GetUser 查詢加入名單中的使用者，不存在時回傳 nil（不是錯誤）
	GetUser(ctx context.Context, roomCode, userID string) (*models.RoomUser, error)
	// AddUser 新增一筆加入名單，呼叫端必須先用 GetUser 確認不存在
	AddUser(ctx context.Context, roomCode string, user models.RoomUser) error
	// SetOnline 將既有的使用者標記為在線，不更動暱稱與位置，可重複呼叫
	SetOnline(ctx context.Context, roomCode, userID string) error
	// UpdateLocation 更新使用者位置
	// 使用者不存在時靜默略過，尚未完成加入就回報位置是良性競態
	UpdateLocation(ctx context.Context, roomCode, userID string, lat, lng float64) error
	// RemoveUser 刪除加入名單中的使用者，不存在時為 no-op
	RemoveUser(ctx context.Context, roomCode, userID string) error
	// GetAllUsers 回傳房間的完整加入名單，以 userId 為 key
	GetAllUsers(ctx context.Context, roomCode string) (map[string]models.RoomUser, error)

	// Vote 將使用者加入餐廳的投票者集合，回傳集合是否有變動
	Vote(ctx context.Context, roomCode, userID, restaurantID string) (bool, error)
	// Unvote 將使用者移出餐廳的投票者集合，回傳原本是否在集合中
	Unvote(ctx context.Context, roomCode, userID, restaurantID string) (bool, error)
	// GetCandidateList 回傳 restaurantId 到投票者列表的對應
	// 投票者為空的餐廳可能仍出現在結果中，由 Tally 負責過濾
	GetCandidateList(ctx context.Context, roomCode string) (map[string][]string, error)
}
