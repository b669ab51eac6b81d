package server

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Kapi-hub/exploding-kittens/internal/apperrors"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
	"github.com/Kapi-hub/exploding-kittens/internal/network/server/game"
)

// Handler 消息处理器
type Handler struct {
	server *Server
}

// NewHandler 创建处理器
func NewHandler(s *Server) *Handler {
	return &Handler{server: s}
}

// Handle 处理消息
func (h *Handler) Handle(client *Client, msg *protocol.Message) {
	switch msg.Type {
	// 连接 / 房间操作
	case protocol.MsgSetName:
		h.handleSetName(client, msg)
	case protocol.MsgCreateRoom:
		h.handleCreateRoom(client, msg)
	case protocol.MsgJoinRoom:
		h.handleJoinRoom(client, msg)
	case protocol.MsgLeaveRoom:
		h.handleLeaveRoom(client)
	case protocol.MsgReady:
		h.handleReady(client, true)
	case protocol.MsgCancelReady:
		h.handleReady(client, false)
	case protocol.MsgChat:
		h.handleChat(client, msg)

	// 游戏操作
	case protocol.MsgDraw:
		h.handleDraw(client)
	case protocol.MsgPlayMove:
		h.handlePlayMove(client, msg)
	case protocol.MsgInsertExplode:
		h.handleInsertExplode(client, msg)
	case protocol.MsgFavorResponse:
		h.handleFavorResponse(client, msg)

	// 排行榜
	case protocol.MsgGetStats:
		h.handleGetStats(client)
	case protocol.MsgGetLeaderboard:
		h.handleGetLeaderboard(client, msg)

	default:
		log.Printf("未知消息类型: %s", msg.Type)
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// sendError 把游戏错误转成错误消息回给客户端
func sendError(client *Client, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(encoding.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	client.SendMessage(encoding.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// handleSetName 处理昵称修改
func (h *Handler) handleSetName(client *Client, msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.SetNamePayload](msg)
	if err != nil {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" || len([]rune(name)) > 15 {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidName))
		return
	}

	// 开局后昵称用作目标选择，中途改名会乱套
	if client.GetRoom() != "" {
		client.SendMessage(encoding.NewErrorMessageWithText(protocol.ErrCodeInvalidName, "进入房间后不能改名"))
		return
	}

	client.SetName(name)
	client.SendMessage(encoding.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:   client.ID,
		PlayerName: name,
	}))
}

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client *Client, msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 已在房间中则先离开
	if client.GetRoom() != "" {
		h.server.roomManager.LeaveRoom(client)
	}

	room, err := h.server.roomManager.CreateRoom(client, payload.Seats)
	if err != nil {
		sendError(client, err)
		return
	}

	client.SendMessage(encoding.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: room.Code,
		Seats:    room.Seats,
	}))
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client *Client, msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if client.GetRoom() != "" {
		h.server.roomManager.LeaveRoom(client)
	}

	room, err := h.server.roomManager.JoinRoom(client, payload.RoomCode)
	if err != nil {
		sendError(client, err)
		return
	}

	room.mu.RLock()
	resp := protocol.RoomJoinedPayload{
		RoomCode: room.Code,
		Seats:    room.Seats,
		Players:  room.playerInfosLocked(),
	}
	room.mu.RUnlock()

	client.SendMessage(encoding.MustNewMessage(protocol.MsgRoomJoined, resp))
}

// handleLeaveRoom 处理离开房间
func (h *Handler) handleLeaveRoom(client *Client) {
	h.server.roomManager.LeaveRoom(client)
}

// handleReady 处理准备 / 取消准备
func (h *Handler) handleReady(client *Client, ready bool) {
	if err := h.server.roomManager.SetPlayerReady(client, ready); err != nil {
		sendError(client, err)
	}
}

// handleChat 处理房间内聊天
func (h *Handler) handleChat(client *Client, msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.ChatPayload](msg)
	if err != nil {
		return
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" || len([]rune(text)) > 200 {
		return
	}

	roomCode := client.GetRoom()
	if roomCode == "" {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}

	room := h.server.roomManager.GetRoom(roomCode)
	if room == nil {
		return
	}

	room.Broadcast(encoding.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{
		PlayerName: client.GetName(),
		Text:       text,
	}))
}

// gameOf 找到客户端所在房间的进行中会话
func (h *Handler) gameOf(client *Client) (*game.GameSession, error) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return nil, apperrors.ErrNotInRoom
	}
	room := h.server.roomManager.GetRoom(roomCode)
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	room.mu.RLock()
	g := room.game
	room.mu.RUnlock()
	if g == nil {
		return nil, apperrors.ErrGameNotStart
	}
	return g, nil
}

// handleDraw 处理摸牌
func (h *Handler) handleDraw(client *Client) {
	g, err := h.gameOf(client)
	if err != nil {
		sendError(client, err)
		return
	}
	if err := g.HandleDraw(client.ID); err != nil {
		sendError(client, err)
	}
}

// handlePlayMove 处理出牌
func (h *Handler) handlePlayMove(client *Client, msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.PlayMovePayload](msg)
	if err != nil {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, err := h.gameOf(client)
	if err != nil {
		sendError(client, err)
		return
	}
	if err := g.HandlePlayMove(client.ID, payload); err != nil {
		sendError(client, err)
	}
}

// handleInsertExplode 处理爆炸猫插回
func (h *Handler) handleInsertExplode(client *Client, msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.InsertExplodePayload](msg)
	if err != nil {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, err := h.gameOf(client)
	if err != nil {
		sendError(client, err)
		return
	}
	if err := g.HandleInsertExplode(client.ID, payload); err != nil {
		sendError(client, err)
	}
}

// handleFavorResponse 处理索要回应
func (h *Handler) handleFavorResponse(client *Client, msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.FavorResponsePayload](msg)
	if err != nil {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, err := h.gameOf(client)
	if err != nil {
		sendError(client, err)
		return
	}
	if err := g.HandleFavorResponse(client.ID, payload); err != nil {
		sendError(client, err)
	}
}

// handleGetStats 查询个人战绩
func (h *Handler) handleGetStats(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stats, err := h.server.leaderboard.GetPlayerStats(ctx, client.ID)
	if err != nil {
		sendError(client, err)
		return
	}

	resp := protocol.StatsPayload{PlayerName: client.GetName(), Rank: -1}
	if stats != nil {
		rank, _ := h.server.leaderboard.GetPlayerRank(ctx, client.ID)
		winRate := 0.0
		if stats.TotalGames > 0 {
			winRate = float64(stats.Wins) / float64(stats.TotalGames) * 100
		}
		resp = protocol.StatsPayload{
			PlayerName: stats.PlayerName,
			TotalGames: stats.TotalGames,
			Wins:       stats.Wins,
			Explosions: stats.Explosions,
			Score:      stats.Score,
			Rank:       rank,
			WinRate:    winRate,
		}
	}

	client.SendMessage(encoding.MustNewMessage(protocol.MsgStats, resp))
}

// handleGetLeaderboard 查询排行榜
func (h *Handler) handleGetLeaderboard(client *Client, msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		client.SendMessage(encoding.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	limit := payload.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	entries, err := h.server.leaderboard.GetLeaderboard(ctx, limit)
	if err != nil {
		sendError(client, err)
		return
	}

	resp := protocol.LeaderboardPayload{Entries: make([]protocol.LeaderboardEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, protocol.LeaderboardEntry{
			Rank:       e.Rank,
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Wins:       e.Wins,
			WinRate:    e.WinRate,
		})
	}

	client.SendMessage(encoding.MustNewMessage(protocol.MsgLeaderboard, resp))
}
