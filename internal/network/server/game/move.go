package game

import (
	"time"

	"github.com/Kapi-hub/exploding-kittens/internal/apperrors"
	"github.com/Kapi-hub/exploding-kittens/internal/game/card"
	"github.com/Kapi-hub/exploding-kittens/internal/logger"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
)

// HandlePlayMove 处理出牌请求。
// 出牌不会立刻生效：先进入否决窗口，窗口期内任何在场玩家
// （包括出牌者本人）都可以打出 NOPE 反制，每张 NOPE 会重置窗口。
// 窗口结束时按 NOPE 的奇偶性结算：偶数张执行，奇数张作废。
func (gs *GameSession) HandlePlayMove(playerID string, payload *protocol.PlayMovePayload) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != GameStatePlaying {
		return ErrGameNotStart
	}
	p := gs.playerByIDLocked(playerID)
	if p == nil {
		return ErrNotInRoom
	}

	// 否决窗口开启时，唯一合法的「出牌」是打一张 NOPE
	if gs.pending == PendingNopeWindow {
		return gs.handleNopeLocked(p, payload)
	}
	if gs.pending != PendingNone {
		return ErrPendingAction
	}
	if gs.currentPlayerLocked() != p {
		return ErrNotYourTurn
	}

	move, err := gs.validateMoveLocked(p, payload)
	if err != nil {
		return err
	}

	gs.openNopeWindowLocked(move)
	return nil
}

// handleNopeLocked 窗口期内的 NOPE 反制
func (gs *GameSession) handleNopeLocked(p *GamePlayer, payload *protocol.PlayMovePayload) error {
	if len(payload.Cards) != 1 {
		return ErrPendingAction
	}
	c, err := card.FromName(payload.Cards[0])
	if err != nil || c != card.Nope {
		return ErrPendingAction
	}
	if !card.Contains(p.Hand, card.Nope) {
		return apperrors.WithText(ErrInvalidMove, "手里没有 NOPE")
	}

	p.Hand, _ = card.RemoveN(p.Hand, card.Nope, 1)
	gs.discard.Add(card.Nope)
	gs.nopeCount++

	gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgNopePlayed, protocol.NopePlayedPayload{
		PlayerName: p.Name,
		Count:      gs.nopeCount,
	}))
	gs.sendToLocked(p, encoding.MustNewMessage(protocol.MsgHandUpdate, protocol.HandUpdatePayload{
		Cards: card.Names(p.Hand),
	}))

	// 每张 NOPE 都把窗口重新拉满，给后续的 NOPE 留时间
	gs.armNopeTimerLocked()
	return nil
}

// validateMoveLocked 校验出牌并构造 Move。
// 单张：只能是 ATTACK / SKIP / SHUFFLE / FUTURE / FAVOR（FAVOR 必须带目标）。
// 两张：同名任意牌 + 目标，随机抽对方一张。
// 三张：同名任意牌 + 目标 + 点名牌，对方有则必须给。
func (gs *GameSession) validateMoveLocked(p *GamePlayer, payload *protocol.PlayMovePayload) (*Move, error) {
	if len(payload.Cards) < 1 || len(payload.Cards) > 3 {
		return nil, ErrInvalidMove
	}

	cards := make([]card.Card, len(payload.Cards))
	for i, name := range payload.Cards {
		c, err := card.FromName(name)
		if err != nil {
			return nil, apperrors.WithText(ErrInvalidMove, err.Error())
		}
		cards[i] = c
	}
	kind := cards[0]
	for _, c := range cards[1:] {
		if c != kind {
			return nil, apperrors.WithText(ErrInvalidMove, "组合必须是相同的牌")
		}
	}

	// 这几张牌不能主动打出：爆炸猫和拆弹牌只在摸牌流程中出现，
	// NOPE 只能在否决窗口期打
	switch kind {
	case card.Explode, card.Defuse, card.Nope:
		return nil, apperrors.WithText(ErrInvalidMove, "这张牌不能这样打出")
	}

	if card.Count(p.Hand, kind) < len(cards) {
		return nil, apperrors.WithText(ErrInvalidMove, "手里的牌不够")
	}

	move := &Move{actor: p, kind: kind, cards: cards}

	switch len(cards) {
	case 1:
		if !kind.IsSpecial() {
			return nil, apperrors.WithText(ErrInvalidMove, "普通牌只能以组合打出")
		}
		if kind == card.Favor {
			target, err := gs.resolveTargetLocked(p, payload.Target)
			if err != nil {
				return nil, err
			}
			move.target = target
		} else if payload.Target != "" {
			return nil, apperrors.WithText(ErrInvalidTarget, "这张牌不需要目标")
		}
	case 2:
		target, err := gs.resolveTargetLocked(p, payload.Target)
		if err != nil {
			return nil, err
		}
		if len(target.Hand) == 0 {
			return nil, apperrors.WithText(ErrInvalidTarget, "目标玩家没有手牌")
		}
		move.target = target
	case 3:
		target, err := gs.resolveTargetLocked(p, payload.Target)
		if err != nil {
			return nil, err
		}
		desired, err := card.FromName(payload.Desired)
		if err != nil {
			return nil, apperrors.WithText(ErrInvalidMove, "必须点名一张要的牌")
		}
		move.target = target
		move.desired = desired
		move.hasDesired = true
	}

	return move, nil
}

// resolveTargetLocked 解析目标玩家：必须在场且不是自己
func (gs *GameSession) resolveTargetLocked(actor *GamePlayer, name string) (*GamePlayer, error) {
	if name == "" {
		return nil, apperrors.WithText(ErrInvalidTarget, "必须指定目标玩家")
	}
	target := gs.playerByNameLocked(name)
	if target == nil {
		return nil, ErrInvalidTarget
	}
	if target == actor {
		return nil, apperrors.WithText(ErrInvalidTarget, "不能选择自己")
	}
	return target, nil
}

// openNopeWindowLocked 把通过校验的出牌挂入否决窗口
func (gs *GameSession) openNopeWindowLocked(move *Move) {
	gs.pending = PendingNopeWindow
	gs.pendingMove = move
	gs.nopeCount = 0

	targetName := ""
	if move.target != nil {
		targetName = move.target.Name
	}
	gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgMovePending, protocol.MovePendingPayload{
		PlayerName: move.actor.Name,
		Cards:      card.Names(move.cards),
		Target:     targetName,
		Seconds:    int(gs.nopeWindow / time.Second),
	}))

	gs.armNopeTimerLocked()
}

// armNopeTimerLocked 装上（或重置）否决计时器。
// 调用方必须持有 mu。老计时器先停掉，代数自增后，
// 迟到的旧回调会因代数不匹配而直接返回。
func (gs *GameSession) armNopeTimerLocked() {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if gs.nopeTimer != nil {
		gs.nopeTimer.Stop()
	}
	gs.nopeGen++
	gen := gs.nopeGen
	gs.nopeTimer = time.AfterFunc(gs.nopeWindow, func() {
		gs.resolveNopeWindow(gen)
	})
}

// cancelNopeTimerLocked 停掉计时器并作废所有未触发的回调
func (gs *GameSession) cancelNopeTimerLocked() {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if gs.nopeTimer != nil {
		gs.nopeTimer.Stop()
		gs.nopeTimer = nil
	}
	gs.nopeGen++
}

// resolveNopeWindow 否决窗口到期结算。在计时器自己的 goroutine 里执行，
// 拿锁后先核对代数：窗口被重置或取消时直接放弃。
func (gs *GameSession) resolveNopeWindow(gen int) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.timerMu.Lock()
	stale := gen != gs.nopeGen
	gs.timerMu.Unlock()
	if stale {
		return
	}
	if gs.state != GameStatePlaying || gs.pending != PendingNopeWindow || gs.pendingMove == nil {
		return
	}

	move := gs.pendingMove
	nopes := gs.nopeCount
	executed := nopes%2 == 0

	gs.pendingMove = nil
	gs.nopeCount = 0
	gs.pending = PendingNone

	// 不管是否被否决，打出的牌都已消耗。出牌者在窗口期内
	// 可能刚好出局，此时手牌已清空，按作废处理。
	if hand, ok := card.RemoveN(move.actor.Hand, move.kind, len(move.cards)); ok {
		move.actor.Hand = hand
		gs.discard.Add(move.cards...)
	} else {
		executed = false
	}

	gs.room.Broadcast(encoding.MustNewMessage(protocol.MsgMoveResult, protocol.MoveResultPayload{
		PlayerName: move.actor.Name,
		Cards:      card.Names(move.cards),
		Executed:   executed,
	}))

	if executed {
		gs.executeMoveLocked(move)
	} else {
		logger.LogInfo("房间 %s %s 的出牌被否决（NOPE x%d）", gs.room.GetCode(), move.actor.Name, nopes)
	}

	if gs.state == GameStatePlaying {
		gs.signalResumeLocked()
	}
}
