package types

import (
	"context"

	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
)

// ClientInterface 客户端接口
type ClientInterface interface {
	GetID() string
	GetName() string
	GetRoom() string
	SetRoom(roomCode string)
	SendMessage(msg *protocol.Message)
	Close()
}

// RoomState 房间状态
type RoomState int

const (
	RoomStateWaiting RoomState = iota // 等待玩家
	RoomStatePlaying                  // 游戏中
	RoomStateEnded                    // 游戏结束
)

// RoomInterface GameSession 依赖的 Room 方法 - 避免循环依赖
type RoomInterface interface {
	// 广播消息给房间内所有玩家
	Broadcast(msg *protocol.Message)

	// 玩家访问
	GetPlayer(id string) RoomPlayerInterface
	GetPlayerOrder() []string

	// 房间信息
	GetCode() string
	SetState(RoomState)

	// 服务访问
	GetServer() ServerContext
}

// RoomPlayerInterface 房间中的玩家接口
type RoomPlayerInterface interface {
	GetClient() ClientInterface
}

// ServerContext 服务器上下文接口
type ServerContext interface {
	GetLeaderboard() LeaderboardInterface
	DissolveRoom(code string)
}

// LeaderboardInterface 排行榜接口
type LeaderboardInterface interface {
	RecordMatchResult(ctx context.Context, playerID, playerName string, won, exploded bool) error
}
