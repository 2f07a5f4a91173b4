package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func joinedClient(userID, roomCode string) *Client {
	client := NewClient(nil, userID)
	client.RoomCode = roomCode
	client.State = StateJoined
	return client
}

func TestRegistry_AddRemove(t *testing.T) {
	registry := NewRegistry()

	c1 := joinedClient("u1", "r1")
	c2 := joinedClient("u2", "r1")

	registry.Add(c1)
	registry.Add(c1) // 重複登記為 no-op
	registry.Add(c2)

	assert.Equal(t, 2, registry.RoomCount("r1"))
	assert.Len(t, registry.RoomClients("r1"), 2)

	registry.Remove(c1)
	assert.Equal(t, 1, registry.RoomCount("r1"))

	registry.Remove(c2)
	assert.Equal(t, 0, registry.RoomCount("r1"))
	assert.Empty(t, registry.RoomClients("r1"))
}

func TestRegistry_StillPresent(t *testing.T) {
	registry := NewRegistry()

	// 同一個使用者的兩個分頁
	tab1 := joinedClient("u1", "r1")
	tab2 := joinedClient("u1", "r1")
	registry.Add(tab1)
	registry.Add(tab2)

	// 斷線中的連線本身必須被排除
	assert.True(t, registry.StillPresent("r1", "u1", tab1.ID))

	registry.Remove(tab1)
	assert.False(t, registry.StillPresent("r1", "u1", tab2.ID),
		"last tab closing means the user is no longer present")
}

func TestRegistry_StillPresent_RoomScoped(t *testing.T) {
	registry := NewRegistry()

	// 同一個使用者出現在另一個房間，不影響本房間的判斷
	other := joinedClient("u1", "r2")
	registry.Add(other)

	closing := joinedClient("u1", "r1")
	registry.Add(closing)

	assert.False(t, registry.StillPresent("r1", "u1", closing.ID))
}
