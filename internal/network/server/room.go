package server

import (
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Kapi-hub/exploding-kittens/internal/apperrors"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
	"github.com/Kapi-hub/exploding-kittens/internal/network/server/game"
	"github.com/Kapi-hub/exploding-kittens/internal/network/server/types"
)

const (
	// 房间号长度
	roomCodeLength = 6
	// 房间号字符集
	roomCodeChars = "0123456789"
)

// RoomPlayer 房间中的玩家
type RoomPlayer struct {
	Client *Client
	Seat   int
	Ready  bool
}

// GetClient 实现 types.RoomPlayerInterface
func (p *RoomPlayer) GetClient() types.ClientInterface {
	return p.Client
}

// Room 游戏房间
type Room struct {
	Code        string
	Seats       int // 满员人数 2-5，开局条件
	State       types.RoomState
	Players     map[string]*RoomPlayer
	PlayerOrder []string // 按座位排序
	CreatedAt   time.Time

	game   *game.GameSession
	server *Server
	mu     sync.RWMutex
}

// Broadcast 广播消息给房间内所有玩家
func (r *Room) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.Players {
		if p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// GetPlayer 按 ID 获取房间玩家，注意避免把 nil 指针装进接口
func (r *Room) GetPlayer(id string) types.RoomPlayerInterface {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.Players[id]
	if !ok {
		return nil
	}
	return p
}

// GetPlayerOrder 按座位顺序返回玩家 ID
func (r *Room) GetPlayerOrder() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.PlayerOrder...)
}

// GetCode 房间号
func (r *Room) GetCode() string {
	return r.Code
}

// SetState 更新房间状态
func (r *Room) SetState(s types.RoomState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.State = s
}

// GetServer 实现 types.RoomInterface
func (r *Room) GetServer() types.ServerContext {
	return r.server
}

// playerInfosLocked 房间玩家信息快照，调用方需持有 r.mu
func (r *Room) playerInfosLocked() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		infos = append(infos, protocol.PlayerInfo{
			Name:  p.Client.Name,
			Seat:  p.Seat,
			Ready: p.Ready,
		})
	}
	return infos
}

// allReadyLocked 是否满员且全部准备
func (r *Room) allReadyLocked() bool {
	if len(r.Players) != r.Seats {
		return false
	}
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// startGame 创建游戏会话并开局
func (r *Room) startGame() {
	r.mu.Lock()
	if r.State != types.RoomStateWaiting {
		r.mu.Unlock()
		return
	}
	r.State = types.RoomStatePlaying
	r.game = game.NewGameSession(r, r.server.config.Game.NopeWindowDuration())
	g := r.game
	r.mu.Unlock()

	g.Start()
}

// RoomManager 房间管理器
type RoomManager struct {
	server *Server
	rooms  map[string]*Room
	mu     sync.RWMutex
}

// NewRoomManager 创建房间管理器
func NewRoomManager(s *Server) *RoomManager {
	rm := &RoomManager{
		server: s,
		rooms:  make(map[string]*Room),
	}

	// 启动房间清理协程
	go rm.cleanupLoop()

	return rm
}

// CreateRoom 创建房间，seats 为满员人数
func (rm *RoomManager) CreateRoom(client *Client, seats int) (*Room, error) {
	cfg := rm.server.config.Game
	if seats < cfg.MinPlayers || seats > cfg.MaxPlayers {
		return nil, apperrors.ErrInvalidSeats
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	code := rm.generateRoomCode()

	room := &Room{
		Code:        code,
		Seats:       seats,
		State:       types.RoomStateWaiting,
		Players:     make(map[string]*RoomPlayer),
		PlayerOrder: make([]string, 0, seats),
		CreatedAt:   time.Now(),
		server:      rm.server,
	}

	room.Players[client.ID] = &RoomPlayer{Client: client, Seat: 0}
	room.PlayerOrder = append(room.PlayerOrder, client.ID)
	client.SetRoom(code)

	rm.rooms[code] = room

	log.Printf("🏠 房间 %s 已创建（%d 人局），房主 %s", code, seats, client.Name)

	return room, nil
}

// JoinRoom 加入房间
func (rm *RoomManager) JoinRoom(client *Client, code string) (*Room, error) {
	rm.mu.RLock()
	room, exists := rm.rooms[code]
	rm.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.State != types.RoomStateWaiting {
		return nil, apperrors.ErrGameStarted
	}
	if len(room.Players) >= room.Seats {
		return nil, apperrors.ErrRoomFull
	}

	// 昵称是游戏内选择目标的键，房间内不允许重名
	for _, p := range room.Players {
		if strings.EqualFold(p.Client.Name, client.Name) {
			return nil, apperrors.ErrInvalidName
		}
	}

	seat := len(room.Players)
	room.Players[client.ID] = &RoomPlayer{Client: client, Seat: seat}
	room.PlayerOrder = append(room.PlayerOrder, client.ID)
	client.SetRoom(code)

	log.Printf("👤 玩家 %s 加入房间 %s（%d/%d）", client.Name, code, len(room.Players), room.Seats)

	// 通知其他玩家
	room.broadcastExceptLocked(client.ID, encoding.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerEventPayload{
		PlayerName: client.Name,
		Seat:       seat,
	}))

	return room, nil
}

// LeaveRoom 离开房间。游戏进行中离开按掉线处理，由会话判罚出局。
func (rm *RoomManager) LeaveRoom(client *Client) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomCode]
	rm.mu.RUnlock()
	if !exists {
		client.SetRoom("")
		return
	}

	room.mu.Lock()

	player, exists := room.Players[client.ID]
	if !exists {
		room.mu.Unlock()
		client.SetRoom("")
		return
	}

	room.broadcastExceptLocked(client.ID, encoding.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerEventPayload{
		PlayerName: client.Name,
		Seat:       player.Seat,
	}))

	delete(room.Players, client.ID)
	for i, id := range room.PlayerOrder {
		if id == client.ID {
			room.PlayerOrder = append(room.PlayerOrder[:i], room.PlayerOrder[i+1:]...)
			break
		}
	}
	client.SetRoom("")

	// 座位重排，保持连续
	for i, id := range room.PlayerOrder {
		room.Players[id].Seat = i
	}

	empty := len(room.Players) == 0
	g := room.game
	playing := room.State == types.RoomStatePlaying
	room.mu.Unlock()

	log.Printf("👋 玩家 %s 离开房间 %s", client.Name, roomCode)

	if playing && g != nil {
		g.PlayerDisconnected(client.ID)
	}

	if empty {
		rm.DissolveRoom(roomCode)
	}
}

// SetPlayerReady 设置准备状态，满员且全部准备时自动开局
func (rm *RoomManager) SetPlayerReady(client *Client, ready bool) error {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return apperrors.ErrNotInRoom
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomCode]
	rm.mu.RUnlock()
	if !exists {
		return apperrors.ErrRoomNotFound
	}

	room.mu.Lock()

	if room.State != types.RoomStateWaiting {
		room.mu.Unlock()
		return apperrors.ErrGameStarted
	}
	player, exists := room.Players[client.ID]
	if !exists {
		room.mu.Unlock()
		return apperrors.ErrNotInRoom
	}

	player.Ready = ready

	room.broadcastExceptLocked("", encoding.MustNewMessage(protocol.MsgPlayerReady, protocol.PlayerEventPayload{
		PlayerName: client.Name,
		Seat:       player.Seat,
		Ready:      ready,
	}))

	start := room.allReadyLocked()
	room.mu.Unlock()

	if start {
		go room.startGame()
	}

	return nil
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// DissolveRoom 解散房间并清理玩家的房间归属
func (rm *RoomManager) DissolveRoom(code string) {
	rm.mu.Lock()
	room, exists := rm.rooms[code]
	if exists {
		delete(rm.rooms, code)
	}
	rm.mu.Unlock()
	if !exists {
		return
	}

	room.mu.Lock()
	for _, p := range room.Players {
		if p.Client != nil && p.Client.GetRoom() == code {
			p.Client.SetRoom("")
		}
	}
	room.mu.Unlock()

	log.Printf("🏠 房间 %s 已解散", code)
}

// ActiveRoomCount 当前房间数
func (rm *RoomManager) ActiveRoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// broadcastExceptLocked 广播给除指定玩家外的所有人，调用方需持有 r.mu
func (r *Room) broadcastExceptLocked(exceptID string, msg *protocol.Message) {
	for id, p := range r.Players {
		if id != exceptID && p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// generateRoomCode 生成不重复的房间号，调用方需持有 rm.mu
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期清理超时的等待房间
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rm.cleanup()
	}
}

// cleanup 清理创建后长时间没开局的房间
func (rm *RoomManager) cleanup() {
	timeout := rm.server.config.Game.RoomTimeoutDuration()
	now := time.Now()

	rm.mu.RLock()
	var expired []string
	for code, room := range rm.rooms {
		room.mu.RLock()
		if room.State == types.RoomStateWaiting && now.Sub(room.CreatedAt) > timeout {
			expired = append(expired, code)
		}
		room.mu.RUnlock()
	}
	rm.mu.RUnlock()

	for _, code := range expired {
		if room := rm.GetRoom(code); room != nil {
			room.Broadcast(encoding.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间超时已关闭"))
		}
		rm.DissolveRoom(code)
		log.Printf("🧹 房间 %s 等待超时，已清理", code)
	}
}
