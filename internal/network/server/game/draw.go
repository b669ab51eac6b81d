package game

import (
	"github.com/Kapi-hub/exploding-kittens/internal/apperrors"
	"github.com/Kapi-hub/exploding-kittens/internal/game/card"
	"github.com/Kapi-hub/exploding-kittens/internal/logger"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
)

// HandleDraw 处理摸牌。摸牌是结束一次回合义务的标准方式：
// 摸到普通牌进手，摸到爆炸猫则看手里有没有拆弹牌。
func (gs *GameSession) HandleDraw(playerID string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != GameStatePlaying {
		return ErrGameNotStart
	}
	p := gs.playerByIDLocked(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	if gs.pending != PendingNone {
		return ErrPendingAction
	}
	if gs.currentPlayerLocked() != p {
		return ErrNotYourTurn
	}

	c, ok := gs.deck.DrawTop()
	if !ok {
		// 按发牌规则牌堆不会在有人存活时摸空，防御性保留
		return apperrors.WithText(ErrInvalidMove, "牌堆已空")
	}

	if c != card.Explode {
		p.Hand = append(p.Hand, c)
		p.TurnsOwed--
		gs.sendToLocked(p, encoding.MustNewMessage(protocol.MsgHandUpdate, protocol.HandUpdatePayload{
			Cards: card.Names(p.Hand),
		}))
		gs.signalResumeLocked()
		return nil
	}

	// 摸到爆炸猫
	if card.Contains(p.Hand, card.Defuse) {
		p.Hand, _ = card.RemoveN(p.Hand, card.Defuse, 1)
		gs.discard.Add(card.Defuse)
		gs.pending = PendingInsertExplode

		gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgExplodeDefused, protocol.ExplodeDefusedPayload{
			PlayerName: p.Name,
		}))
		gs.sendToLocked(p, encoding.MustNewMessage(protocol.MsgInsertRequest, protocol.InsertRequestPayload{
			MaxIndex: len(gs.deck),
		}))
		gs.sendToLocked(p, encoding.MustNewMessage(protocol.MsgHandUpdate, protocol.HandUpdatePayload{
			Cards: card.Names(p.Hand),
		}))
		logger.LogInfo("房间 %s 玩家 %s 拆弹成功，等待插回", gs.room.GetCode(), p.Name)
		return nil
	}

	// 没有拆弹牌，出局
	gs.eliminateLocked(p, true)
	if gs.state == GameStatePlaying {
		gs.signalResumeLocked()
	}
	return nil
}

// HandleInsertExplode 拆弹后指定爆炸猫插回的位置，0 为堆底，
// len(deck) 为堆顶。只有完成插回，回合才算结束。
func (gs *GameSession) HandleInsertExplode(playerID string, payload *protocol.InsertExplodePayload) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != GameStatePlaying {
		return ErrGameNotStart
	}
	p := gs.playerByIDLocked(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	if gs.pending != PendingInsertExplode || gs.currentPlayerLocked() != p {
		return ErrPendingAction
	}
	if payload.Index < 0 || payload.Index > len(gs.deck) {
		return ErrInvalidIndex
	}

	gs.deck.InsertAt(payload.Index, card.Explode)
	gs.pending = PendingNone
	if p.TurnsOwed > 0 {
		p.TurnsOwed--
	}

	gs.signalResumeLocked()
	return nil
}

// HandleFavorResponse 被索要的玩家交出一张牌
func (gs *GameSession) HandleFavorResponse(playerID string, payload *protocol.FavorResponsePayload) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != GameStatePlaying {
		return ErrGameNotStart
	}
	p := gs.playerByIDLocked(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	if gs.pending != PendingFavorResponse || gs.favorTarget != p {
		return ErrPendingAction
	}

	c, err := card.FromName(payload.Card)
	if err != nil {
		return apperrors.WithText(ErrInvalidMove, err.Error())
	}
	hand, ok := card.RemoveN(p.Hand, c, 1)
	if !ok {
		return apperrors.WithText(ErrInvalidMove, "手里没有这张牌")
	}
	p.Hand = hand

	actor := gs.favorActor
	actor.Hand = append(actor.Hand, c)

	result := protocol.FavorResultPayload{
		FromPlayer: p.Name,
		ToPlayer:   actor.Name,
		Card:       c.String(),
	}
	gs.sendToLocked(p, encoding.MustNewMessage(protocol.MsgFavorResult, result))
	gs.sendToLocked(actor, encoding.MustNewMessage(protocol.MsgFavorResult, result))

	gs.pending = PendingNone
	gs.favorActor = nil
	gs.favorTarget = nil

	gs.signalResumeLocked()
	return nil
}
