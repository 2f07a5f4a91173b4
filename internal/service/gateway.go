package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"lunch_vote/internal/models"
	"lunch_vote/internal/repository"
	"lunch_vote/internal/roomstate"
	"lunch_vote/internal/utils"
)

// Scope 指定一則出站訊息要送給誰
type Scope int

const (
	ScopeReply            Scope = iota // 只回給發出事件的連線
	ScopeRoom                          // 廣播給整個房間（含發送者）
	ScopeRoomExceptSender              // 廣播給房間裡發送者以外的連線
)

// Emission 是事件處理器算出的一則出站訊息
// 處理器只負責決定送什麼、送給誰，實際發送由 Dispatch 執行，
// 這讓路由器不需要活的 transport 就能測試
type Emission struct {
	Scope Scope
	Event string
	Data  interface{}
}

func reply(event string, data interface{}) Emission {
	return Emission{Scope: ScopeReply, Event: event, Data: data}
}

func toRoom(event string, data interface{}) Emission {
	return Emission{Scope: ScopeRoom, Event: event, Data: data}
}

func toOthers(event string, data interface{}) Emission {
	return Emission{Scope: ScopeRoomExceptSender, Event: event, Data: data}
}

// Gateway 是房間事件的路由器
// 接收每條連線的入站事件，對 roomstate.Store 做出變更，
// 再把重新讀出的快照廣播給房間裡的連線
type Gateway struct {
	store    roomstate.Store
	rooms    repository.RoomRepository
	registry *Registry
	logger   zerolog.Logger
}

func NewGateway(store roomstate.Store, rooms repository.RoomRepository, logger zerolog.Logger) *Gateway {
	return &Gateway{
		store:    store,
		rooms:    rooms,
		registry: NewRegistry(),
		logger:   logger.With().Str("component", "gateway").Logger(),
	}
}

// HandleEvent 依事件類型分派給對應的處理器，回傳要發送的訊息
// 儲存層的錯誤在這裡全部轉成對發送者的失敗回覆，不會中斷連線
func (g *Gateway) HandleEvent(ctx context.Context, client *Client, evt models.Event) []Emission {
	switch evt.Event {
	case models.EventConnectRoom:
		var dto models.ConnectRoomDto
		if err := json.Unmarshal(evt.Data, &dto); err != nil {
			return []Emission{reply(models.EventConnectResult, models.NewFailRes("連線房間失敗"))}
		}
		return g.connectRoom(ctx, client, dto)

	case models.EventChangeMyLocation:
		var dto models.UserLocationDto
		if err := json.Unmarshal(evt.Data, &dto); err != nil {
			return nil
		}
		return g.changeMyLocation(ctx, client, dto)

	case models.EventVoteRestaurant:
		var dto models.VoteRestaurantDto
		if err := json.Unmarshal(evt.Data, &dto); err != nil {
			return []Emission{reply(models.EventVoteRestaurantResult, models.NewFailRes("投票失敗"))}
		}
		return g.voteRestaurant(ctx, client, dto)

	case models.EventCancelVoteRestaurant:
		var dto models.VoteRestaurantDto
		if err := json.Unmarshal(evt.Data, &dto); err != nil {
			return []Emission{reply(models.EventCancelVoteRestaurantResult, models.NewFailRes("取消投票失敗"))}
		}
		return g.cancelVoteRestaurant(ctx, client, dto)

	case models.EventGetVoteResult:
		return g.getVoteResult(ctx, client)

	case models.EventGetUserVoteRestaurantList:
		return g.getUserVoteRestaurantIDList(ctx, client)

	default:
		g.logger.Warn().Str("event", evt.Event).Str("connId", client.ID).Msg("unknown event")
		return nil
	}
}

// connectRoom 處理加入房間
// 第一次加入的使用者取得隨機暱稱並寫進加入名單；
// 同一個使用者開第二個分頁只會被標記回在線，不會多出一筆
func (g *Gateway) connectRoom(ctx context.Context, client *Client, dto models.ConnectRoomDto) []Emission {
	fail := func(err error, msg string) []Emission {
		g.logger.Error().Err(err).Str("roomCode", dto.RoomCode).Str("userId", client.UserID).Msg(msg)
		return []Emission{reply(models.EventConnectResult, models.NewFailRes("連線房間失敗"))}
	}

	room, err := g.rooms.FindByCode(dto.RoomCode)
	if err != nil {
		return fail(err, "room lookup failed")
	}

	catalog, err := g.store.GetCatalog(ctx, dto.RoomCode)
	if err != nil {
		return fail(err, "catalog lookup failed")
	}

	user, err := g.store.GetUser(ctx, dto.RoomCode, client.UserID)
	if err != nil {
		return fail(err, "join list lookup failed")
	}

	if user == nil {
		user = &models.RoomUser{
			UserID:   client.UserID,
			UserName: utils.MakeRandomNickname(),
			UserLat:  dto.UserLat,
			UserLng:  dto.UserLng,
			IsOnline: true,
		}
		if err := g.store.AddUser(ctx, dto.RoomCode, *user); err != nil {
			return fail(err, "add user failed")
		}
	} else {
		if err := g.store.SetOnline(ctx, dto.RoomCode, client.UserID); err != nil {
			return fail(err, "set online failed")
		}
		user.IsOnline = true
	}

	userList, err := g.store.GetAllUsers(ctx, dto.RoomCode)
	if err != nil {
		return fail(err, "join list fetch failed")
	}

	// 同一條連線換房間時先退出原本的登記
	if client.State == StateJoined && client.RoomCode != dto.RoomCode {
		g.registry.Remove(client)
	}
	client.RoomCode = dto.RoomCode
	client.State = StateJoined
	g.registry.Add(client)

	return []Emission{
		reply(models.EventConnectResult, models.NewSuccessRes("房間連線成功", models.ConnectSuccessData{
			RoomCode:       dto.RoomCode,
			Lat:            room.Lat,
			Lng:            room.Lng,
			RestaurantList: catalog,
			UserList:       userList,
			UserID:         user.UserID,
			UserName:       user.UserName,
		})),
		toOthers(models.EventJoin, models.NewSuccessRes("新使用者加入", *user)),
	}
}

// changeMyLocation 更新發送者的位置並廣播給整個房間（含發送者）
func (g *Gateway) changeMyLocation(ctx context.Context, client *Client, dto models.UserLocationDto) []Emission {
	if client.State != StateJoined {
		return nil
	}

	if err := g.store.UpdateLocation(ctx, client.RoomCode, client.UserID, dto.UserLat, dto.UserLng); err != nil {
		g.logger.Error().Err(err).Str("roomCode", client.RoomCode).Str("userId", client.UserID).
			Msg("location update failed")
		return nil
	}

	return []Emission{
		toRoom(models.EventChangeUserLocation, models.NewSuccessRes("使用者位置更新", models.UserLocationData{
			UserID:  client.UserID,
			UserLat: dto.UserLat,
			UserLng: dto.UserLng,
		})),
	}
}

// voteRestaurant 處理投票
// 重複投票（集合沒有變動）視為軟性失敗，只回覆發送者；
// 成功時回覆發送者個人的已投清單，並向全房間廣播重新統計的結果
func (g *Gateway) voteRestaurant(ctx context.Context, client *Client, dto models.VoteRestaurantDto) []Emission {
	if client.State != StateJoined {
		return []Emission{reply(models.EventVoteRestaurantResult, models.NewFailRes("投票失敗"))}
	}

	changed, err := g.store.Vote(ctx, client.RoomCode, client.UserID, dto.RestaurantID)
	if err != nil {
		g.logger.Error().Err(err).Str("roomCode", client.RoomCode).Msg("vote failed")
		return []Emission{reply(models.EventVoteRestaurantResult, models.NewFailRes("投票失敗"))}
	}
	if !changed {
		// 已投過的重複投票，是競態不是錯誤
		g.logger.Debug().Str("roomCode", client.RoomCode).Str("userId", client.UserID).
			Str("restaurantId", dto.RestaurantID).Msg("duplicate vote ignored")
		return []Emission{reply(models.EventVoteRestaurantResult, models.NewFailRes("投票失敗"))}
	}

	emissions := []Emission{
		reply(models.EventVoteRestaurantResult, models.NewSuccessRes("投票成功", dto.RestaurantID)),
	}
	return append(emissions, g.voteSnapshot(ctx, client)...)
}

// cancelVoteRestaurant 處理取消投票，與 voteRestaurant 對稱
func (g *Gateway) cancelVoteRestaurant(ctx context.Context, client *Client, dto models.VoteRestaurantDto) []Emission {
	if client.State != StateJoined {
		return []Emission{reply(models.EventCancelVoteRestaurantResult, models.NewFailRes("取消投票失敗"))}
	}

	changed, err := g.store.Unvote(ctx, client.RoomCode, client.UserID, dto.RestaurantID)
	if err != nil {
		g.logger.Error().Err(err).Str("roomCode", client.RoomCode).Msg("unvote failed")
		return []Emission{reply(models.EventCancelVoteRestaurantResult, models.NewFailRes("取消投票失敗"))}
	}
	if !changed {
		g.logger.Debug().Str("roomCode", client.RoomCode).Str("userId", client.UserID).
			Str("restaurantId", dto.RestaurantID).Msg("cancel of absent vote ignored")
		return []Emission{reply(models.EventCancelVoteRestaurantResult, models.NewFailRes("取消投票失敗"))}
	}

	emissions := []Emission{
		reply(models.EventCancelVoteRestaurantResult, models.NewSuccessRes("取消投票成功", dto.RestaurantID)),
	}
	return append(emissions, g.voteSnapshot(ctx, client)...)
}

// voteSnapshot 重新讀出候選名單，組出發送者的已投清單與全房間的投票現況
// 每次變動都整份重算：房間人數有限，換掉客戶端合併狀態的各種邊角問題很划算
func (g *Gateway) voteSnapshot(ctx context.Context, client *Client) []Emission {
	candidates, err := g.store.GetCandidateList(ctx, client.RoomCode)
	if err != nil {
		g.logger.Error().Err(err).Str("roomCode", client.RoomCode).Msg("candidate list fetch failed")
		return nil
	}

	return []Emission{
		reply(models.EventUserVoteRestaurantList,
			models.NewSuccessRes("使用者已投餐廳清單", roomstate.VotedBy(candidates, client.UserID))),
		toRoom(models.EventVoteResultUpdate,
			models.NewSuccessRes("投票現況更新", roomstate.Tally(candidates))),
	}
}

// getVoteResult 回覆目前的投票現況，只回給發送者
func (g *Gateway) getVoteResult(ctx context.Context, client *Client) []Emission {
	if client.State != StateJoined {
		return []Emission{reply(models.EventCurrentVoteResult, models.NewFailRes("查詢投票現況失敗"))}
	}

	candidates, err := g.store.GetCandidateList(ctx, client.RoomCode)
	if err != nil {
		g.logger.Error().Err(err).Str("roomCode", client.RoomCode).Msg("candidate list fetch failed")
		return []Emission{reply(models.EventCurrentVoteResult, models.NewFailRes("查詢投票現況失敗"))}
	}

	return []Emission{
		reply(models.EventCurrentVoteResult,
			models.NewSuccessRes("目前投票現況", roomstate.Tally(candidates))),
	}
}

// getUserVoteRestaurantIDList 回覆發送者自己投過的餐廳清單
func (g *Gateway) getUserVoteRestaurantIDList(ctx context.Context, client *Client) []Emission {
	if client.State != StateJoined {
		return []Emission{reply(models.EventUserVoteRestaurantList, models.NewFailRes("查詢已投清單失敗"))}
	}

	candidates, err := g.store.GetCandidateList(ctx, client.RoomCode)
	if err != nil {
		g.logger.Error().Err(err).Str("roomCode", client.RoomCode).Msg("candidate list fetch failed")
		return []Emission{reply(models.EventUserVoteRestaurantList, models.NewFailRes("查詢已投清單失敗"))}
	}

	return []Emission{
		reply(models.EventUserVoteRestaurantList,
			models.NewSuccessRes("使用者已投餐廳清單", roomstate.VotedBy(candidates, client.UserID))),
	}
}

// Disconnect 處理連線斷開
// 先判斷使用者是否還有其他連線（排除正在斷線的這條），
// 是最後一條才從加入名單移除並廣播 leave；判斷必須在移除登記之前
func (g *Gateway) Disconnect(ctx context.Context, client *Client) []Emission {
	if client.State != StateJoined {
		client.State = StateClosed
		return nil
	}

	stillPresent := g.registry.StillPresent(client.RoomCode, client.UserID, client.ID)
	g.registry.Remove(client)
	client.State = StateClosed

	if stillPresent {
		return nil
	}

	// 斷線路徑的儲存錯誤只記錄，已經沒有連線可以通知
	if err := g.store.RemoveUser(ctx, client.RoomCode, client.UserID); err != nil {
		g.logger.Error().Err(err).Str("roomCode", client.RoomCode).Str("userId", client.UserID).
			Msg("remove user on disconnect failed")
	}

	return []Emission{
		toRoom(models.EventLeave, models.NewSuccessRes("使用者離開", models.LeaveData{UserID: client.UserID})),
	}
}

// Dispatch 依 Scope 將訊息發給對應的連線
func (g *Gateway) Dispatch(sender *Client, emissions []Emission) {
	for _, emission := range emissions {
		out := models.OutEvent{Event: emission.Event, Data: emission.Data}

		switch emission.Scope {
		case ScopeReply:
			g.send(sender, out)
		case ScopeRoom, ScopeRoomExceptSender:
			for _, peer := range g.registry.RoomClients(sender.RoomCode) {
				if emission.Scope == ScopeRoomExceptSender && peer.ID == sender.ID {
					continue
				}
				g.send(peer, out)
			}
		}
	}
}

// send 將訊息放進連線的發送隊列，隊列滿了就視為死連線處理掉
func (g *Gateway) send(client *Client, out models.OutEvent) {
	select {
	case client.Send <- out:
	default:
		g.registry.Remove(client)
		if client.conn != nil {
			client.conn.Close()
		}
	}
}
