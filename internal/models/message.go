package models

import "encoding/json"

// socket 協定的事件名稱
// 入站（客戶端 → 伺服器）
const (
	EventConnectRoom               = "connectRoom"
	EventChangeMyLocation          = "changeMyLocation"
	EventVoteRestaurant            = "voteRestaurant"
	EventCancelVoteRestaurant      = "cancelVoteRestaurant"
	EventGetVoteResult             = "getVoteResult"
	EventGetUserVoteRestaurantList = "getUserVoteRestaurantIdList"
)

// 出站（伺服器 → 客戶端）
const (
	EventConnectResult              = "connectResult"
	EventJoin                       = "join"
	EventLeave                      = "leave"
	EventChangeUserLocation         = "changeUserLocation"
	EventVoteRestaurantResult       = "voteRestaurantResult"
	EventCancelVoteRestaurantResult = "cancelVoteRestaurantResult"
	EventVoteResultUpdate           = "voteResultUpdate"
	EventCurrentVoteResult          = "currentVoteResult"
	EventUserVoteRestaurantList     = "userVoteRestaurantIdList"
)

// Event 代表一則入站的 socket 訊息
// data 先保留原始 JSON，由路由器依事件類型解析
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutEvent 代表一則出站的 socket 訊息
type OutEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ResTemplate 是所有回覆資料的統一外層
// 失敗時 data 為 null，客戶端以此判斷結果
type ResTemplate struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ConnectRoomDto 定義 connectRoom 事件的請求內容
type ConnectRoomDto struct {
	RoomCode string  `json:"roomCode"`
	UserLat  float64 `json:"userLat"`
	UserLng  float64 `json:"userLng"`
}

// UserLocationDto 定義 changeMyLocation 事件的請求內容
type UserLocationDto struct {
	UserLat float64 `json:"userLat"`
	UserLng float64 `json:"userLng"`
}

// VoteRestaurantDto 定義投票與取消投票事件的請求內容
type VoteRestaurantDto struct {
	RestaurantID string `json:"restaurantId"`
}

// ConnectSuccessData 是 connectRoom 成功時回覆的房間快照
type ConnectSuccessData struct {
	RoomCode       string              `json:"roomCode"`
	Lat            float64             `json:"lat"`
	Lng            float64             `json:"lng"`
	RestaurantList []Restaurant        `json:"restaurantList"`
	UserList       map[string]RoomUser `json:"userList"`
	UserID         string              `json:"userId"`
	UserName       string              `json:"userName"`
}

// UserLocationData 是 changeUserLocation 廣播的內容
type UserLocationData struct {
	UserID  string  `json:"userId"`
	UserLat float64 `json:"userLat"`
	UserLng float64 `json:"userLng"`
}

// LeaveData 是 leave 廣播的內容
type LeaveData struct {
	UserID string `json:"userId"`
}

// NewSuccessRes 建立一個帶資料的成功回覆
func NewSuccessRes(message string, data interface{}) ResTemplate {
	return ResTemplate{Message: message, Data: data}
}

// NewFailRes 建立一個失敗回覆，data 固定為 null
func NewFailRes(message string) ResTemplate {
	return ResTemplate{Message: message, Data: nil}
}
