package models

import (
	"gorm.io/gorm"
)

// Room 表示一個聚餐房間
// 房間由 REST 的建立流程產生，socket 協調器只讀取，不修改
type Room struct {
	gorm.Model
	RoomCode    string       `gorm:"uniqueIndex;not null" json:"roomCode"` // 房間代碼，對外識別用
	Lat         float64      `json:"lat"`                                  // 聚餐地點緯度
	Lng         float64      `json:"lng"`                                  // 聚餐地點經度
	Restaurants []Restaurant `gorm:"foreignKey:RoomID" json:"-"`           // 房間建立時搜尋到的餐廳列表
}

// Restaurant 表示房間附近的一間候選餐廳
// 建立房間時從地點搜尋服務取得，之後不再變動
type Restaurant struct {
	gorm.Model `json:"-"`
	RoomID     uint    `json:"-"`
	PlaceID    string  `gorm:"not null" json:"id"` // 地點搜尋服務給的餐廳 ID
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	PlaceURL   string  `json:"placeUrl,omitempty"` // 餐廳詳細頁連結
	Distance   int     `json:"distance"`           // 與聚餐地點的距離（公尺）
}
