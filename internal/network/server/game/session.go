package game

import (
	"strings"
	"sync"
	"time"

	"github.com/Kapi-hub/exploding-kittens/internal/apperrors"
	"github.com/Kapi-hub/exploding-kittens/internal/game/card"
	"github.com/Kapi-hub/exploding-kittens/internal/network/server/types"
)

// GameState 游戏状态
type GameState int

const (
	GameStateInit GameState = iota
	GameStatePlaying
	GameStateEnded
)

// PendingAction 挂起的交互。挂起期间回合环不前进，
// 除否决窗口中的 NOPE 外不接受任何普通操作。
type PendingAction int

const (
	PendingNone          PendingAction = iota
	PendingInsertExplode               // 等待摸到爆炸猫的玩家指定插回下标
	PendingFavorResponse               // 等待被索要的玩家交牌
	PendingNopeWindow                  // 否决窗口开启中
)

// GamePlayer 游戏中的玩家
type GamePlayer struct {
	ID         string
	Name       string
	Seat       int
	Hand       []card.Card // 手牌是多重集合，同种牌可有多张
	TurnsOwed  int         // 还欠的回合数（进入回合时 +1，行动后 -1）
	Eliminated bool
}

// Move 一次通过校验、等待否决窗口结算的出牌
type Move struct {
	actor      *GamePlayer
	kind       card.Card
	cards      []card.Card // 声明打出的牌（组合时为同种多张）
	target     *GamePlayer
	desired    card.Card // 三张组合点名索要的牌
	hasDesired bool
}

// GameSession 一局游戏的会话。所有共享状态由 mu 串行化：
// 出牌、摸牌、插回、索要回应、否决计时器回调都必须先拿到 mu。
type GameSession struct {
	room       types.RoomInterface
	nopeWindow time.Duration

	state   GameState
	players []*GamePlayer // 回合环，按座位顺序，只含未出局玩家
	out     []*GamePlayer // 已出局玩家（保留用于战绩记录）
	current int           // 当前回合玩家在 players 中的下标

	deck            card.Deck
	discard         card.Pile
	removedFromPlay []card.Card // 发牌时撤出及爆炸后移出的牌，用于对账

	// 挂起交互
	pending     PendingAction
	favorActor  *GamePlayer // FAVOR 的发起者
	favorTarget *GamePlayer // 被索要的玩家

	// 否决窗口。计时器的替换必须是「先取消旧的再装新的」，
	// nopeGen 防止已被替换的计时器回调再结算一次。
	pendingMove *Move
	nopeCount   int
	nopeTimer   *time.Timer
	nopeGen     int
	timerMu     sync.Mutex

	// 协调器：每次已提交的状态变更后被唤醒，推进回合环并广播
	resume chan struct{}
	done   chan struct{}

	mu sync.Mutex
}

// NewGameSession 创建游戏会话
func NewGameSession(room types.RoomInterface, nopeWindow time.Duration) *GameSession {
	playerOrder := room.GetPlayerOrder()
	players := make([]*GamePlayer, len(playerOrder))
	for i, id := range playerOrder {
		rp := room.GetPlayer(id)
		players[i] = &GamePlayer{
			ID:   id,
			Name: rp.GetClient().GetName(),
			Seat: i,
		}
	}

	return &GameSession{
		room:       room,
		nopeWindow: nopeWindow,
		state:      GameStateInit,
		players:    players,
		resume:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// 错误别名，统一从 apperrors 取
var (
	ErrGameNotStart  = apperrors.ErrGameNotStart
	ErrNotYourTurn   = apperrors.ErrNotYourTurn
	ErrInvalidMove   = apperrors.ErrInvalidMove
	ErrInvalidTarget = apperrors.ErrInvalidTarget
	ErrInvalidIndex  = apperrors.ErrInvalidIndex
	ErrPendingAction = apperrors.ErrPendingAction
	ErrNotInRoom     = apperrors.ErrNotInRoom
)

// --- 加锁前提下的小工具 ---

// currentPlayerLocked 当前回合的玩家
func (gs *GameSession) currentPlayerLocked() *GamePlayer {
	return gs.players[gs.current]
}

// playerByIDLocked 按客户端 ID 查找未出局玩家
func (gs *GameSession) playerByIDLocked(id string) *GamePlayer {
	for _, p := range gs.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// playerByNameLocked 按昵称查找未出局玩家，大小写不敏感
func (gs *GameSession) playerByNameLocked(name string) *GamePlayer {
	for _, p := range gs.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// nextIndexLocked 回合环中 i 的下一位
func (gs *GameSession) nextIndexLocked(i int) int {
	return (i + 1) % len(gs.players)
}

// TotalCards 场上所有牌的总数：牌堆 + 手牌 + 弃牌堆 + 已移出的牌。
// 整局游戏中恒等于 card.DeckSize。
func (gs *GameSession) TotalCards() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	total := len(gs.deck) + len(gs.discard) + len(gs.removedFromPlay)
	for _, p := range gs.players {
		total += len(p.Hand)
	}
	return total
}
