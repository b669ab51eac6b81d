package client

import (
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
)

// --- 便捷方法 ---

// SetName 设置昵称
func (c *Client) SetName(name string) error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgSetName, protocol.SetNamePayload{
		Name: name,
	}))
}

// CreateRoom 创建房间
func (c *Client) CreateRoom(seats int) error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		Seats: seats,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode string) error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: roomCode,
	}))
}

// LeaveRoom 离开房间
func (c *Client) LeaveRoom() error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgLeaveRoom, nil))
}

// Ready 准备
func (c *Client) Ready() error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgReady, nil))
}

// CancelReady 取消准备
func (c *Client) CancelReady() error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgCancelReady, nil))
}

// Chat 发送房间聊天
func (c *Client) Chat(text string) error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{
		Text: text,
	}))
}

// Draw 摸牌结束回合
func (c *Client) Draw() error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgDraw, nil))
}

// PlayMove 出牌（单张或组合）
func (c *Client) PlayMove(cards []string, target, desired string) error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgPlayMove, protocol.PlayMovePayload{
		Cards:   cards,
		Target:  target,
		Desired: desired,
	}))
}

// InsertExplode 指定爆炸猫插回位置
func (c *Client) InsertExplode(index int) error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgInsertExplode, protocol.InsertExplodePayload{
		Index: index,
	}))
}

// FavorResponse 回应索要
func (c *Client) FavorResponse(card string) error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgFavorResponse, protocol.FavorResponsePayload{
		Card: card,
	}))
}

// GetStats 获取个人统计
func (c *Client) GetStats() error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgGetStats, nil))
}

// GetLeaderboard 获取排行榜
func (c *Client) GetLeaderboard(limit int) error {
	return c.SendMessage(encoding.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Limit: limit,
	}))
}
