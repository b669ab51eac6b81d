package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/Kapi-hub/exploding-kittens/internal/logger"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
	"github.com/Kapi-hub/exploding-kittens/internal/network/server/types"

	"github.com/Kapi-hub/exploding-kittens/internal/game/card"
)

const (
	initialHandSize = 7
	defusesInDeck   = 2 // 5 人局只放回 1 张
)

// Start 初始化并开始游戏：洗牌发牌、随机定庄、启动协调器
func (gs *GameSession) Start() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != GameStateInit {
		return
	}

	gs.setupDeckLocked()

	// 随机选择先手，入场即欠 1 回合
	gs.current = rand.Intn(len(gs.players))
	gs.currentPlayerLocked().TurnsOwed = 1

	gs.state = GameStatePlaying

	names := make([]string, len(gs.players))
	for i, p := range gs.players {
		names[i] = p.Name
	}
	gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgGameStart, protocol.GameStartPayload{
		Players:     names,
		FirstPlayer: gs.currentPlayerLocked().Name,
		DeckSize:    len(gs.deck),
	}))
	gs.broadcastHandsLocked()
	gs.broadcastTurnLocked(true)

	logger.LogInfo("房间 %s 游戏开始，%d 名玩家，先手 %s",
		gs.room.GetCode(), len(gs.players), gs.currentPlayerLocked().Name)

	go gs.runCoordinator()
}

// setupDeckLocked 按规则准备牌堆：
//  1. 从整副牌中取出全部爆炸猫和拆弹牌
//  2. 每人发 1 张拆弹牌，剩余拆弹牌放回 2 张（5 人局放回 1 张），多余的移出本局
//  3. 洗牌后每人补到 7 张手牌
//  4. 放入「人数 - 1」张爆炸猫，多余的爆炸猫移出本局，再洗一次
func (gs *GameSession) setupDeckLocked() {
	n := len(gs.players)

	gs.deck = card.NewDeck()
	explodes := gs.deck.RemoveAll(card.Explode)
	defuses := gs.deck.RemoveAll(card.Defuse)

	for _, p := range gs.players {
		p.Hand = append(p.Hand, card.Defuse)
		defuses--
	}
	returned := defusesInDeck
	if n == 5 {
		returned = 1
	}
	for i := 0; i < returned && defuses > 0; i++ {
		gs.deck = append(gs.deck, card.Defuse)
		defuses--
	}
	for i := 0; i < defuses; i++ {
		gs.removedFromPlay = append(gs.removedFromPlay, card.Defuse)
	}

	gs.deck.Shuffle()
	for i := 0; i < initialHandSize; i++ {
		for _, p := range gs.players {
			c, _ := gs.deck.DrawTop()
			p.Hand = append(p.Hand, c)
		}
	}

	for i := 0; i < n-1; i++ {
		gs.deck = append(gs.deck, card.Explode)
		explodes--
	}
	for i := 0; i < explodes; i++ {
		gs.removedFromPlay = append(gs.removedFromPlay, card.Explode)
	}
	gs.deck.Shuffle()
}

// eliminateLocked 将玩家炸出局。exploded 为 true 表示手里那张爆炸猫
// 刚被摸出（牌已不在堆中），否则从牌堆里撤掉一张爆炸猫，
// 保持「堆里爆炸猫数 = 在场人数 - 1」。
func (gs *GameSession) eliminateLocked(p *GamePlayer, exploded bool) {
	if exploded {
		gs.removedFromPlay = append(gs.removedFromPlay, card.Explode)
	} else if gs.deck.RemoveOne(card.Explode) {
		gs.removedFromPlay = append(gs.removedFromPlay, card.Explode)
	}

	// 手牌进弃牌堆
	gs.discard.Add(p.Hand...)
	p.Hand = nil
	p.Eliminated = true
	p.TurnsOwed = 0

	// 从回合环移除，当前下标相应回退
	for i, gp := range gs.players {
		if gp == p {
			gs.players = append(gs.players[:i], gs.players[i+1:]...)
			if gs.current >= i {
				gs.current--
				if gs.current < 0 {
					gs.current = len(gs.players) - 1
				}
			}
			break
		}
	}
	gs.out = append(gs.out, p)

	gs.deck.Shuffle()

	gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgPlayerEliminated, protocol.PlayerEliminatedPayload{
		PlayerName: p.Name,
		Remaining:  len(gs.players),
	}))
	logger.LogInfo("房间 %s 玩家 %s 出局，剩余 %d 人", gs.room.GetCode(), p.Name, len(gs.players))

	if len(gs.players) == 1 {
		gs.endGameLocked(gs.players[0])
	}
}

// endGameLocked 结束比赛：广播胜者、异步记录战绩、解散房间
func (gs *GameSession) endGameLocked(winner *GamePlayer) {
	if gs.state == GameStateEnded {
		return
	}
	gs.state = GameStateEnded
	gs.cancelNopeTimerLocked()

	gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		Winner: winner.Name,
	}))
	logger.LogInfo("房间 %s 比赛结束，胜者 %s", gs.room.GetCode(), winner.Name)

	// 战绩落库不阻塞结算
	srv := gs.room.GetServer()
	lb := srv.GetLeaderboard()
	if lb != nil {
		all := make([]*GamePlayer, 0, len(gs.out)+1)
		all = append(all, gs.out...)
		all = append(all, winner)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for _, p := range all {
				won := p == winner
				if err := lb.RecordMatchResult(ctx, p.ID, p.Name, won, p.Eliminated); err != nil {
					logger.LogError("记录战绩失败 player=%s: %v", p.Name, err)
				}
			}
		}()
	}

	close(gs.done)
	gs.room.SetState(types.RoomStateEnded)
	go srv.DissolveRoom(gs.room.GetCode())
}

// PlayerDisconnected 处理游戏中途掉线：该玩家按认输出局。
// 若掉线者正处于某个挂起交互（插回 / 交牌 / 否决窗口的发起者），
// 先把挂起清掉，回合环才能继续转动。
func (gs *GameSession) PlayerDisconnected(playerID string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != GameStatePlaying {
		return
	}
	p := gs.playerByIDLocked(playerID)
	if p == nil {
		return
	}

	switch gs.pending {
	case PendingNopeWindow:
		if gs.pendingMove != nil && gs.pendingMove.actor == p {
			// 发起者跑了，出的牌直接作废。声明的牌还在其手里，
			// 随整手牌一起进弃牌堆
			gs.cancelNopeTimerLocked()
			gs.pendingMove = nil
			gs.nopeCount = 0
			gs.pending = PendingNone
		}
	case PendingFavorResponse:
		if gs.favorActor == p || gs.favorTarget == p {
			gs.favorActor = nil
			gs.favorTarget = nil
			gs.pending = PendingNone
		}
	case PendingInsertExplode:
		if gs.currentPlayerLocked() == p {
			// 没插回就走人，爆炸猫随机塞回
			gs.deck.InsertAt(rand.Intn(len(gs.deck)+1), card.Explode)
			gs.pending = PendingNone
		}
	}

	gs.eliminateLocked(p, false)
	if gs.state == GameStatePlaying {
		gs.signalResumeLocked()
	}
}
