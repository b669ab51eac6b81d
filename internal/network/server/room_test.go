package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Kapi-hub/exploding-kittens/internal/network/server/types"
)

func TestRoom_AllReady(t *testing.T) {
	room := &Room{
		Seats:   3,
		Players: make(map[string]*RoomPlayer),
	}

	// Case 1: Not enough players
	room.Players["p1"] = &RoomPlayer{Ready: true}
	room.Players["p2"] = &RoomPlayer{Ready: true}
	assert.False(t, room.allReadyLocked())

	// Case 2: Enough players, but not all ready
	room.Players["p3"] = &RoomPlayer{Ready: false}
	assert.False(t, room.allReadyLocked())

	// Case 3: All ready
	room.Players["p3"].Ready = true
	assert.True(t, room.allReadyLocked())
}

func TestRoom_PlayerInfos(t *testing.T) {
	room := &Room{
		Players: make(map[string]*RoomPlayer),
	}
	client := &Client{ID: "p1", Name: "TestPlayer"}
	room.Players["p1"] = &RoomPlayer{
		Client: client,
		Seat:   0,
		Ready:  true,
	}
	room.PlayerOrder = []string{"p1"}

	infos := room.playerInfosLocked()

	assert.Len(t, infos, 1)
	assert.Equal(t, "TestPlayer", infos[0].Name)
	assert.Equal(t, 0, infos[0].Seat)
	assert.True(t, infos[0].Ready)
}

func TestRoom_GetPlayer_MissingIsNil(t *testing.T) {
	room := &Room{Players: make(map[string]*RoomPlayer)}

	// 缺失的玩家必须返回接口层面的 nil
	assert.Nil(t, room.GetPlayer("nobody"))
}

func TestRoomManager_GenerateRoomCode(t *testing.T) {
	rm := &RoomManager{rooms: make(map[string]*Room)}

	code := rm.generateRoomCode()
	assert.Len(t, code, roomCodeLength)
	for _, ch := range code {
		assert.True(t, ch >= '0' && ch <= '9')
	}

	// 已占用的号码不会被再次生成
	rm.rooms[code] = &Room{}
	code2 := rm.generateRoomCode()
	assert.NotEqual(t, code, code2)
}

func TestRoomManager_DissolveRoom(t *testing.T) {
	rm := &RoomManager{rooms: make(map[string]*Room)}

	client := &Client{ID: "p1", Name: "Player1", RoomID: "654321"}
	room := &Room{
		Code:        "654321",
		State:       types.RoomStateWaiting,
		Players:     map[string]*RoomPlayer{"p1": {Client: client}},
		PlayerOrder: []string{"p1"},
		CreatedAt:   time.Now(),
	}
	rm.rooms["654321"] = room

	rm.DissolveRoom("654321")

	assert.Nil(t, rm.GetRoom("654321"))
	assert.Empty(t, client.GetRoom())

	// 重复解散是安全的
	rm.DissolveRoom("654321")
}
