package models

// RoomUser 表示加入名單中的一個使用者
// 以 session 解析出來的 userId 識別，同一個使用者開多個分頁仍只有一筆
type RoomUser struct {
	UserID   string  `json:"userId"`   // session 識別碼，跨分頁、跨重連皆相同
	UserName string  `json:"userName"` // 首次加入時隨機產生的暱稱
	UserLat  float64 `json:"userLat"`  // 最後回報的位置
	UserLng  float64 `json:"userLng"`
	IsOnline bool    `json:"isOnline"`
}
