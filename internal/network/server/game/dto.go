package game

import (
	"github.com/Kapi-hub/exploding-kittens/internal/game/card"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
)

// sendToLocked 私发消息给指定玩家。玩家掉线时 GetPlayer 可能返回 nil，
// 此时静默丢弃，游戏继续。
func (gs *GameSession) sendToLocked(p *GamePlayer, msg *protocol.Message) {
	rp := gs.room.GetPlayer(p.ID)
	if rp == nil {
		return
	}
	rp.GetClient().SendMessage(msg)
}

// sendErrorTo 给指定客户端回错误
func (gs *GameSession) sendErrorTo(p *GamePlayer, code int, text string) {
	gs.sendToLocked(p, encoding.NewErrorMessageWithText(code, text))
}

// broadcastTurnLocked 广播当前回合状态
func (gs *GameSession) broadcastTurnLocked(stillSame bool) {
	cur := gs.currentPlayerLocked()
	discardTop := ""
	if top, ok := gs.discard.Top(); ok {
		discardTop = top.String()
	}
	gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgTurnUpdate, protocol.TurnUpdatePayload{
		CurrentPlayer: cur.Name,
		TurnsOwed:     cur.TurnsOwed,
		DiscardTop:    discardTop,
		DeckSize:      len(gs.deck),
		StillSameTurn: stillSame,
	}))
}

// broadcastHandsLocked 给每位在场玩家私发手牌快照
func (gs *GameSession) broadcastHandsLocked() {
	for _, p := range gs.players {
		gs.sendToLocked(p, encoding.MustNewMessage(protocol.MsgHandUpdate, protocol.HandUpdatePayload{
			Cards: card.Names(p.Hand),
		}))
	}
}

// signalResumeLocked 唤醒协调器。通道带 1 个缓冲，
// 已有待处理信号时直接丢弃，协调器醒来后会看到最新状态。
func (gs *GameSession) signalResumeLocked() {
	select {
	case gs.resume <- struct{}{}:
	default:
	}
}
