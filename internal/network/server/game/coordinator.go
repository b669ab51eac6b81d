package game

// runCoordinator 回合协调器。每次已提交的状态变更（摸牌、结算、
// 插回、交牌、出局）都会通过 resume 唤醒它，由它统一判断
// 回合环是否前进，并把最新局面广播出去。
// 把「推进回合」收敛到单个 goroutine，handler 里就不需要
// 各自计算下一位玩家。
func (gs *GameSession) runCoordinator() {
	for {
		select {
		case <-gs.done:
			return
		case <-gs.resume:
		}

		gs.mu.Lock()
		if gs.state != GameStatePlaying {
			gs.mu.Unlock()
			continue
		}
		stillSame := gs.stepTurnLocked()
		gs.broadcastTurnLocked(stillSame)
		gs.broadcastHandsLocked()
		gs.mu.Unlock()
	}
}

// stepTurnLocked 尝试推进回合环。有挂起交互时冻结；
// 当前玩家还欠回合时继续由他行动。换手时新玩家多欠 1 回合。
// 返回 true 表示还是同一位玩家。
func (gs *GameSession) stepTurnLocked() bool {
	if gs.pending != PendingNone || gs.currentPlayerLocked().TurnsOwed > 0 {
		return true
	}
	gs.current = gs.nextIndexLocked(gs.current)
	gs.currentPlayerLocked().TurnsOwed++
	return false
}
