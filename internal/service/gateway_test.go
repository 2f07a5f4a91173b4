package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lunch_vote/internal/models"
	"lunch_vote/internal/repository"
	"lunch_vote/internal/roomstate"
)

type fakeRoomRepo struct {
	rooms map[string]*models.Room
}

func (f *fakeRoomRepo) Create(room *models.Room) error {
	f.rooms[room.RoomCode] = room
	return nil
}

func (f *fakeRoomRepo) FindByCode(roomCode string) (*models.Room, error) {
	room, ok := f.rooms[roomCode]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return room, nil
}

// newTestGateway 建立一個帶記憶體儲存的路由器，房間 r1 已存在，快照為 [A, B]
func newTestGateway(t *testing.T) (*Gateway, *roomstate.MemoryStore) {
	t.Helper()

	store := roomstate.NewMemoryStore()
	require.NoError(t, store.SeedCatalog(context.Background(), "r1", []models.Restaurant{
		{PlaceID: "A", Name: "김밥천국"},
		{PlaceID: "B", Name: "본죽"},
	}))

	repo := &fakeRoomRepo{rooms: map[string]*models.Room{
		"r1": {RoomCode: "r1", Lat: 37.5, Lng: 127.0},
	}}

	return NewGateway(store, repo, zerolog.Nop()), store
}

func event(t *testing.T, name string, payload interface{}) models.Event {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return models.Event{Event: name, Data: data}
}

func connect(t *testing.T, g *Gateway, client *Client, roomCode string) []Emission {
	t.Helper()

	return g.HandleEvent(context.Background(), client, event(t, models.EventConnectRoom,
		models.ConnectRoomDto{RoomCode: roomCode, UserLat: 37.51, UserLng: 127.01}))
}

func connectData(t *testing.T, em Emission) models.ConnectSuccessData {
	t.Helper()

	res, ok := em.Data.(models.ResTemplate)
	require.True(t, ok)
	require.NotNil(t, res.Data)
	data, ok := res.Data.(models.ConnectSuccessData)
	require.True(t, ok)
	return data
}

func TestGateway_ConnectRoom(t *testing.T) {
	g, _ := newTestGateway(t)

	client := NewClient(nil, "u1")
	emissions := connect(t, g, client, "r1")

	require.Len(t, emissions, 2)

	assert.Equal(t, ScopeReply, emissions[0].Scope)
	assert.Equal(t, models.EventConnectResult, emissions[0].Event)
	data := connectData(t, emissions[0])
	assert.Equal(t, "r1", data.RoomCode)
	assert.Equal(t, 37.5, data.Lat)
	assert.Equal(t, 127.0, data.Lng)
	assert.Len(t, data.RestaurantList, 2)
	assert.Equal(t, "u1", data.UserID)
	assert.NotEmpty(t, data.UserName, "first join assigns a random nickname")
	require.Contains(t, data.UserList, "u1")
	assert.True(t, data.UserList["u1"].IsOnline)

	// 其他連線收到 join 廣播，發送者自己不收
	assert.Equal(t, ScopeRoomExceptSender, emissions[1].Scope)
	assert.Equal(t, models.EventJoin, emissions[1].Event)

	assert.Equal(t, StateJoined, client.State)
	assert.Equal(t, "r1", client.RoomCode)
	assert.Equal(t, 1, g.registry.RoomCount("r1"))
}

func TestGateway_ConnectRoom_RoomNotFound(t *testing.T) {
	g, _ := newTestGateway(t)

	client := NewClient(nil, "u1")
	emissions := connect(t, g, client, "nope")

	require.Len(t, emissions, 1)
	assert.Equal(t, models.EventConnectResult, emissions[0].Event)
	res := emissions[0].Data.(models.ResTemplate)
	assert.Nil(t, res.Data, "failed connect carries null data")

	// 連線停在 Joining，也不會被登記進房間
	assert.Equal(t, StateJoining, client.State)
	assert.Equal(t, 0, g.registry.RoomCount("nope"))
}

func TestGateway_ConnectRoom_SecondTabIdempotent(t *testing.T) {
	g, store := newTestGateway(t)
	ctx := context.Background()

	tab1 := NewClient(nil, "u1")
	first := connect(t, g, tab1, "r1")
	firstName := connectData(t, first[0]).UserName

	// 同一個使用者開第二個分頁
	tab2 := NewClient(nil, "u1")
	second := connect(t, g, tab2, "r1")
	data := connectData(t, second[0])

	assert.Equal(t, firstName, data.UserName, "nickname is assigned once, at first join")
	assert.Len(t, data.UserList, 1, "second tab must not create a second join-list entry")

	users, err := store.GetAllUsers(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGateway_ChangeMyLocation(t *testing.T) {
	g, store := newTestGateway(t)
	ctx := context.Background()

	client := NewClient(nil, "u1")
	connect(t, g, client, "r1")

	emissions := g.HandleEvent(ctx, client, event(t, models.EventChangeMyLocation,
		models.UserLocationDto{UserLat: 37.6, UserLng: 127.1}))

	require.Len(t, emissions, 1)
	assert.Equal(t, ScopeRoom, emissions[0].Scope, "location updates go to the whole room, sender included")
	assert.Equal(t, models.EventChangeUserLocation, emissions[0].Event)

	user, err := store.GetUser(ctx, "r1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 37.6, user.UserLat)
	assert.Equal(t, 127.1, user.UserLng)
}

func TestGateway_ChangeMyLocation_BeforeJoin(t *testing.T) {
	g, _ := newTestGateway(t)

	client := NewClient(nil, "u1")
	emissions := g.HandleEvent(context.Background(), client, event(t, models.EventChangeMyLocation,
		models.UserLocationDto{UserLat: 37.6, UserLng: 127.1}))

	assert.Empty(t, emissions)
}

func TestGateway_VoteRestaurant(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	client := NewClient(nil, "u1")
	connect(t, g, client, "r1")

	emissions := g.HandleEvent(ctx, client, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))

	require.Len(t, emissions, 3)

	assert.Equal(t, ScopeReply, emissions[0].Scope)
	assert.Equal(t, models.EventVoteRestaurantResult, emissions[0].Event)
	assert.NotNil(t, emissions[0].Data.(models.ResTemplate).Data)

	assert.Equal(t, ScopeReply, emissions[1].Scope)
	assert.Equal(t, models.EventUserVoteRestaurantList, emissions[1].Event)
	assert.Equal(t, []string{"A"}, emissions[1].Data.(models.ResTemplate).Data)

	assert.Equal(t, ScopeRoom, emissions[2].Scope)
	assert.Equal(t, models.EventVoteResultUpdate, emissions[2].Event)
	assert.Equal(t, []roomstate.VoteCount{{RestaurantID: "A", Count: 1}},
		emissions[2].Data.(models.ResTemplate).Data)
}

func TestGateway_VoteRestaurant_Duplicate(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	client := NewClient(nil, "u1")
	connect(t, g, client, "r1")

	g.HandleEvent(ctx, client, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))
	emissions := g.HandleEvent(ctx, client, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))

	// 重複投票：只回失敗給發送者，不重新廣播
	require.Len(t, emissions, 1)
	assert.Equal(t, ScopeReply, emissions[0].Scope)
	assert.Equal(t, models.EventVoteRestaurantResult, emissions[0].Event)
	assert.Nil(t, emissions[0].Data.(models.ResTemplate).Data)
}

func TestGateway_VoteRestaurant_BeforeJoin(t *testing.T) {
	g, _ := newTestGateway(t)

	client := NewClient(nil, "u1")
	emissions := g.HandleEvent(context.Background(), client, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))

	require.Len(t, emissions, 1)
	assert.Nil(t, emissions[0].Data.(models.ResTemplate).Data)
}

func TestGateway_CancelVoteRestaurant(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	client := NewClient(nil, "u1")
	connect(t, g, client, "r1")

	g.HandleEvent(ctx, client, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))
	emissions := g.HandleEvent(ctx, client, event(t, models.EventCancelVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))

	require.Len(t, emissions, 3)
	assert.Equal(t, models.EventCancelVoteRestaurantResult, emissions[0].Event)
	assert.Equal(t, []string{}, emissions[1].Data.(models.ResTemplate).Data)
	assert.Equal(t, []roomstate.VoteCount{}, emissions[2].Data.(models.ResTemplate).Data)

	// 沒投過就取消是軟性失敗
	emissions = g.HandleEvent(ctx, client, event(t, models.EventCancelVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "B"}))
	require.Len(t, emissions, 1)
	assert.Nil(t, emissions[0].Data.(models.ResTemplate).Data)
}

func TestGateway_Disconnect_LastConnectionLeaves(t *testing.T) {
	g, store := newTestGateway(t)
	ctx := context.Background()

	tab1 := NewClient(nil, "u1")
	tab2 := NewClient(nil, "u1")
	connect(t, g, tab1, "r1")
	connect(t, g, tab2, "r1")

	// 還有另一個分頁在線，不算離開
	emissions := g.Disconnect(ctx, tab1)
	assert.Empty(t, emissions, "closing one of two tabs must not broadcast leave")
	assert.Equal(t, StateClosed, tab1.State)

	user, err := store.GetUser(ctx, "r1", "u1")
	require.NoError(t, err)
	assert.NotNil(t, user, "join-list entry survives while another tab is open")

	// 最後一條連線關閉才真正離開
	emissions = g.Disconnect(ctx, tab2)
	require.Len(t, emissions, 1)
	assert.Equal(t, models.EventLeave, emissions[0].Event)
	assert.Equal(t, ScopeRoom, emissions[0].Scope)
	res := emissions[0].Data.(models.ResTemplate)
	assert.Equal(t, models.LeaveData{UserID: "u1"}, res.Data)

	user, err = store.GetUser(ctx, "r1", "u1")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGateway_Disconnect_BeforeJoin(t *testing.T) {
	g, _ := newTestGateway(t)

	client := NewClient(nil, "u1")
	emissions := g.Disconnect(context.Background(), client)

	assert.Empty(t, emissions)
	assert.Equal(t, StateClosed, client.State)
}

func TestGateway_Dispatch(t *testing.T) {
	g, _ := newTestGateway(t)

	u1 := NewClient(nil, "u1")
	connect(t, g, u1, "r1")
	u2 := NewClient(nil, "u2")
	emissions := connect(t, g, u2, "r1")

	g.Dispatch(u2, emissions)

	// u2 自己收到 connectResult，u1 收到 join
	require.Len(t, u2.Send, 1)
	assert.Equal(t, models.EventConnectResult, (<-u2.Send).Event)

	require.Len(t, u1.Send, 1)
	assert.Equal(t, models.EventJoin, (<-u1.Send).Event)
}

// 依序模擬兩個使用者從連線、投票到離開的完整流程
func TestGateway_EndToEnd(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	u1 := NewClient(nil, "u1")
	emissions := connect(t, g, u1, "r1")
	assert.Len(t, connectData(t, emissions[0]).UserList, 1, "u1 sees only itself")

	u2 := NewClient(nil, "u2")
	emissions = connect(t, g, u2, "r1")
	assert.Len(t, connectData(t, emissions[0]).UserList, 2, "u2 sees u1 in the join list")

	// u2 投 A → 全房間看到 [(A,1)]
	emissions = g.HandleEvent(ctx, u2, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))
	assert.Equal(t, []roomstate.VoteCount{{RestaurantID: "A", Count: 1}},
		emissions[2].Data.(models.ResTemplate).Data)

	// u1 也投 A → [(A,2)]
	emissions = g.HandleEvent(ctx, u1, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))
	assert.Equal(t, []roomstate.VoteCount{{RestaurantID: "A", Count: 2}},
		emissions[2].Data.(models.ResTemplate).Data)

	// u2 斷線（唯一的連線）→ 廣播 leave
	emissions = g.Disconnect(ctx, u2)
	require.Len(t, emissions, 1)
	assert.Equal(t, models.EventLeave, emissions[0].Event)

	// 離開不撤票，現況仍是 [(A,2)]
	emissions = g.HandleEvent(ctx, u1, event(t, models.EventGetVoteResult, nil))
	require.Len(t, emissions, 1)
	assert.Equal(t, models.EventCurrentVoteResult, emissions[0].Event)
	assert.Equal(t, []roomstate.VoteCount{{RestaurantID: "A", Count: 2}},
		emissions[0].Data.(models.ResTemplate).Data)
}

func TestGateway_GetUserVoteRestaurantIdList(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	client := NewClient(nil, "u1")
	connect(t, g, client, "r1")

	g.HandleEvent(ctx, client, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "B"}))
	g.HandleEvent(ctx, client, event(t, models.EventVoteRestaurant,
		models.VoteRestaurantDto{RestaurantID: "A"}))

	emissions := g.HandleEvent(ctx, client, event(t, models.EventGetUserVoteRestaurantList, nil))
	require.Len(t, emissions, 1)
	assert.Equal(t, []string{"A", "B"}, emissions[0].Data.(models.ResTemplate).Data)
}

func TestGateway_UnknownEvent(t *testing.T) {
	g, _ := newTestGateway(t)

	client := NewClient(nil, "u1")
	emissions := g.HandleEvent(context.Background(), client, models.Event{Event: "mystery", Data: json.RawMessage(`{}`)})

	assert.Empty(t, emissions)
}
