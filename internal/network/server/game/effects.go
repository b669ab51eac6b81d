package game

import (
	"math/rand"

	"github.com/Kapi-hub/exploding-kittens/internal/game/card"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
)

// executeMoveLocked 执行一次通过否决窗口的出牌。
// 目标玩家可能在窗口期内恰好出局（比如中途掉线），
// 此时牌照样消耗但效果落空。
func (gs *GameSession) executeMoveLocked(move *Move) {
	if move.target != nil && move.target.Eliminated {
		return
	}

	targetName := ""
	if move.target != nil {
		targetName = move.target.Name
	}
	gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgCardPlayed, protocol.CardPlayedPayload{
		PlayerName: move.actor.Name,
		Cards:      card.Names(move.cards),
		Target:     targetName,
	}))

	switch len(move.cards) {
	case 1:
		gs.executeSingleLocked(move)
	case 2:
		gs.executePairLocked(move)
	case 3:
		gs.executeTripleLocked(move)
	}
}

func (gs *GameSession) executeSingleLocked(move *Move) {
	switch move.kind {
	case card.Attack:
		gs.executeAttackLocked(move.actor)
	case card.Skip:
		// 跳过当前这一次摸牌义务，不摸牌
		if move.actor.TurnsOwed > 0 {
			move.actor.TurnsOwed--
		}
	case card.Shuffle:
		gs.deck.Shuffle()
	case card.Future:
		gs.sendToLocked(move.actor, encoding.MustNewMessage(protocol.MsgSeeFuture, protocol.SeeFuturePayload{
			Cards: card.Names(gs.deck.PeekTop(3)),
		}))
	case card.Favor:
		if len(move.target.Hand) == 0 {
			// 对方没牌可给，效果落空
			return
		}
		gs.pending = PendingFavorResponse
		gs.favorActor = move.actor
		gs.favorTarget = move.target
		gs.sendToLocked(move.target, encoding.MustNewMessage(protocol.MsgFavorRequest, protocol.FavorRequestPayload{
			FromPlayer: move.actor.Name,
		}))
	}
}

// executeAttackLocked 攻击：当前玩家不摸牌直接结束，
// 欠的回合全部转嫁给下家，下家至少承担 2 个回合。
// 被攻击者再打攻击时，剩余债务继续向后传。
func (gs *GameSession) executeAttackLocked(actor *GamePlayer) {
	next := gs.players[gs.nextIndexLocked(gs.current)]

	actor.TurnsOwed--
	if actor.TurnsOwed > 0 {
		// 自己还背着被攻击欠下的回合，全部压给下家
		next.TurnsOwed += actor.TurnsOwed
		actor.TurnsOwed = 0
	} else {
		// 普通攻击：下家在换手获得的 1 回合之外再多欠 1 回合
		next.TurnsOwed++
	}
}

// executePairLocked 两张同名组合：从目标手里随机抽一张
func (gs *GameSession) executePairLocked(move *Move) {
	target := move.target
	if len(target.Hand) == 0 {
		// 窗口期内目标把牌打光了，组合落空
		gs.broadcastStealLocked(move, "", false)
		return
	}

	i := rand.Intn(len(target.Hand))
	stolen := target.Hand[i]
	target.Hand = append(target.Hand[:i], target.Hand[i+1:]...)
	move.actor.Hand = append(move.actor.Hand, stolen)

	gs.broadcastStealLocked(move, stolen.String(), true)
}

// executeTripleLocked 三张同名组合：点名索要，目标有则必须交出
func (gs *GameSession) executeTripleLocked(move *Move) {
	target := move.target
	if !card.Contains(target.Hand, move.desired) {
		gs.broadcastStealLocked(move, "", false)
		return
	}

	target.Hand, _ = card.RemoveN(target.Hand, move.desired, 1)
	move.actor.Hand = append(move.actor.Hand, move.desired)

	gs.broadcastStealLocked(move, move.desired.String(), true)
}

// broadcastStealLocked 偷牌结果：双方能看到牌名，旁观者只知道是否得手
func (gs *GameSession) broadcastStealLocked(move *Move, cardName string, found bool) {
	full := encoding.MustNewMessage(protocol.MsgStealResult, protocol.StealResultPayload{
		FromPlayer: move.target.Name,
		ToPlayer:   move.actor.Name,
		Card:       cardName,
		Found:      found,
	})
	masked := encoding.MustNewMessage(protocol.MsgStealResult, protocol.StealResultPayload{
		FromPlayer: move.target.Name,
		ToPlayer:   move.actor.Name,
		Found:      found,
	})

	for _, p := range gs.players {
		if p == move.actor || p == move.target {
			gs.sendToLocked(p, full)
		} else {
			gs.sendToLocked(p, masked)
		}
	}
}
