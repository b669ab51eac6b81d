package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kapi-hub/exploding-kittens/internal/game/card"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/server/types"
)

const testNopeWindow = 25 * time.Millisecond

// newManualSession 构造一个不洗牌、不启动协调器的会话，
// 手牌和牌堆由测试自己摆放。players[0] 为先手，欠 1 回合。
func newManualSession(room *fakeRoom, hands [][]card.Card, deck card.Deck) *GameSession {
	gs := NewGameSession(room, testNopeWindow)
	for i, p := range gs.players {
		p.Hand = append([]card.Card{}, hands[i]...)
	}
	gs.deck = deck
	gs.state = GameStatePlaying
	gs.current = 0
	gs.players[0].TurnsOwed = 1
	return gs
}

func step(gs *GameSession) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.stepTurnLocked()
}

func pendingOf(gs *GameSession) PendingAction {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.pending
}

func waitWindowResolved(t *testing.T, gs *GameSession) {
	t.Helper()
	require.Eventually(t, func() bool {
		return pendingOf(gs) != PendingNopeWindow
	}, time.Second, 2*time.Millisecond)
}

func TestGameSession_Start(t *testing.T) {
	room := newFakeRoom("Alice", "Bob", "Carol")
	gs := NewGameSession(room, testNopeWindow)

	gs.Start()

	assert.Equal(t, GameStatePlaying, gs.state)
	assert.Len(t, gs.players, 3)

	// 每人 7 张起手牌 + 1 张拆弹牌
	for _, p := range gs.players {
		assert.Len(t, p.Hand, 8)
		assert.True(t, card.Contains(p.Hand, card.Defuse))
		assert.False(t, card.Contains(p.Hand, card.Explode))
	}

	// 牌堆里的爆炸猫数 = 人数 - 1
	explodes := 0
	for _, c := range gs.deck {
		if c == card.Explode {
			explodes++
		}
	}
	assert.Equal(t, 2, explodes)

	// 3 人局：移出 1 张多余拆弹牌和 2 张多余爆炸猫
	assert.Len(t, gs.removedFromPlay, 3)
	assert.Equal(t, card.DeckSize, gs.TotalCards())

	// 先手欠 1 回合
	assert.Equal(t, 1, gs.currentPlayerLocked().TurnsOwed)

	// 广播包含开局和回合通知
	bt := room.broadcastTypes()
	assert.Contains(t, bt, protocol.MsgGameStart)
	assert.Contains(t, bt, protocol.MsgTurnUpdate)

	// 每位玩家都收到过手牌快照
	for _, c := range room.clients {
		found := false
		for _, msg := range c.Messages {
			if msg.Type == protocol.MsgHandUpdate {
				found = true
			}
		}
		assert.True(t, found, "玩家 %s 没有收到手牌", c.Name)
	}
}

func TestGameSession_Start_FivePlayers(t *testing.T) {
	room := newFakeRoom("P1", "P2", "P3", "P4", "P5")
	gs := NewGameSession(room, testNopeWindow)

	gs.Start()

	for _, p := range gs.players {
		assert.Len(t, p.Hand, 8)
	}
	// 5 人局只放回 1 张拆弹牌：6 张拆弹牌刚好用完，
	// 爆炸猫 4 张全部入堆，没有牌被移出
	assert.Empty(t, gs.removedFromPlay)
	assert.Equal(t, card.DeckSize, gs.TotalCards())
}

func TestHandleDraw_Normal(t *testing.T) {
	room := newFakeRoom("Alice", "Bob")
	gs := newManualSession(room,
		[][]card.Card{{card.Defuse}, {card.Defuse}},
		card.Deck{card.Beard, card.Tacocat}, // Tacocat 在堆顶
	)

	err := gs.HandleDraw("p1")
	require.NoError(t, err)

	assert.True(t, card.Contains(gs.players[0].Hand, card.Tacocat))
	assert.Equal(t, 0, gs.players[0].TurnsOwed)

	// 回合义务清零，推进到下一位
	step(gs)
	assert.Equal(t, "Bob", gs.currentPlayerLocked().Name)
	assert.Equal(t, 1, gs.currentPlayerLocked().TurnsOwed)
}

func TestHandleDraw_NotYourTurn(t *testing.T) {
	room := newFakeRoom("Alice", "Bob")
	gs := newManualSession(room,
		[][]card.Card{{card.Defuse}, {card.Defuse}},
		card.Deck{card.Beard},
	)

	err := gs.HandleDraw("p2")
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestHandleDraw_ExplodeWithDefuse(t *testing.T) {
	room := newFakeRoom("Alice", "Bob")
	gs := newManualSession(room,
		[][]card.Card{{card.Defuse, card.Beard}, {card.Defuse}},
		card.Deck{card.Tacocat, card.Potato, card.Explode},
	)

	err := gs.HandleDraw("p1")
	require.NoError(t, err)

	// 拆弹牌消耗、进入插回挂起，爆炸猫在手外悬空
	assert.Equal(t, PendingInsertExplode, gs.pending)
	assert.False(t, card.Contains(gs.players[0].Hand, card.Defuse))
	top, _ := gs.discard.Top()
	assert.Equal(t, card.Defuse, top)

	// 挂起期间不能再摸牌
	err = gs.HandleDraw("p1")
	assert.ErrorIs(t, err, ErrPendingAction)

	// 越界下标被拒绝
	err = gs.HandleInsertExplode("p1", &protocol.InsertExplodePayload{Index: 99})
	assert.ErrorIs(t, err, ErrInvalidIndex)

	// 插到堆底
	err = gs.HandleInsertExplode("p1", &protocol.InsertExplodePayload{Index: 0})
	require.NoError(t, err)
	assert.Equal(t, PendingNone, gs.pending)
	assert.Equal(t, card.Explode, gs.deck[0])
	assert.Equal(t, 0, gs.players[0].TurnsOwed)
	// 测试摆了 6 张牌，插回后一张不少
	assert.Equal(t, 6, gs.TotalCards())
}

func TestHandleDraw_ExplodeWithoutDefuse(t *testing.T) {
	room := newFakeRoom("Alice", "Bob", "Carol")
	gs := newManualSession(room,
		[][]card.Card{{card.Beard}, {card.Defuse}, {card.Defuse}},
		card.Deck{card.Tacocat, card.Explode, card.Explode},
	)

	err := gs.HandleDraw("p1")
	require.NoError(t, err)

	// Alice 出局，回合环剩 2 人，牌堆里留 1 张爆炸猫
	assert.Len(t, gs.players, 2)
	assert.True(t, gs.out[0].Eliminated)
	assert.Equal(t, "Alice", gs.out[0].Name)

	explodes := 0
	for _, c := range gs.deck {
		if c == card.Explode {
			explodes++
		}
	}
	assert.Equal(t, 1, explodes)

	// 摸出的爆炸猫移出本局，手牌进弃牌堆
	assert.Contains(t, gs.removedFromPlay, card.Explode)
	assert.Contains(t, []card.Card(gs.discard), card.Beard)

	// 下一手轮到 Bob
	step(gs)
	assert.Equal(t, "Bob", gs.currentPlayerLocked().Name)

	bt := room.broadcastTypes()
	assert.Contains(t, bt, protocol.MsgPlayerEliminated)
}

func TestAttack_TransfersTurns(t *testing.T) {
	room := newFakeRoom("Alice", "Bob", "Carol")
	gs := newManualSession(room,
		[][]card.Card{{card.Attack}, {card.Attack}, {}},
		card.Deck{card.Beard, card.Tacocat, card.Potato},
	)

	a, b, c := gs.players[0], gs.players[1], gs.players[2]

	// Alice 欠 1 回合打出攻击：自己清零，Bob 换手后共欠 2
	gs.mu.Lock()
	gs.executeAttackLocked(a)
	gs.stepTurnLocked()
	gs.mu.Unlock()

	assert.Equal(t, 0, a.TurnsOwed)
	assert.Equal(t, b, gs.currentPlayerLocked())
	assert.Equal(t, 2, b.TurnsOwed)

	// Bob 顶着 2 回合再打攻击：债务转嫁，Carol 恰好欠 2
	gs.mu.Lock()
	gs.executeAttackLocked(b)
	gs.stepTurnLocked()
	gs.mu.Unlock()

	assert.Equal(t, 0, b.TurnsOwed)
	assert.Equal(t, c, gs.currentPlayerLocked())
	assert.Equal(t, 2, c.TurnsOwed)
}

func TestNopeWindow_Parity(t *testing.T) {
	cases := []struct {
		name     string
		nopes    int
		executed bool
	}{
		{"无人否决时执行", 0, true},
		{"单张否决作废", 1, false},
		{"否决再否决恢复执行", 2, true},
		{"三张否决作废", 3, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			room := newFakeRoom("Alice", "Bob")
			gs := newManualSession(room,
				[][]card.Card{{card.Skip}, {card.Nope, card.Nope, card.Nope}},
				card.Deck{card.Beard, card.Tacocat},
			)

			err := gs.HandlePlayMove("p1", &protocol.PlayMovePayload{Cards: []string{"SKIP"}})
			require.NoError(t, err)
			assert.Equal(t, PendingNopeWindow, pendingOf(gs))

			for i := 0; i < tc.nopes; i++ {
				err := gs.HandlePlayMove("p2", &protocol.PlayMovePayload{Cards: []string{"NOPE"}})
				require.NoError(t, err)
			}

			waitWindowResolved(t, gs)

			gs.mu.Lock()
			defer gs.mu.Unlock()
			// SKIP 生效时回合义务清零，被否决时保持欠 1
			if tc.executed {
				assert.Equal(t, 0, gs.players[0].TurnsOwed)
			} else {
				assert.Equal(t, 1, gs.players[0].TurnsOwed)
			}
			// 不论结果如何，打出的牌都进了弃牌堆
			assert.Equal(t, tc.nopes+1, len(gs.discard))
			assert.False(t, card.Contains(gs.players[0].Hand, card.Skip))
			assert.Equal(t, 3-tc.nopes, card.Count(gs.players[1].Hand, card.Nope))
		})
	}
}

func TestNope_RequiresCardInHand(t *testing.T) {
	room := newFakeRoom("Alice", "Bob")
	gs := newManualSession(room,
		[][]card.Card{{card.Skip}, {card.Beard}},
		card.Deck{card.Tacocat},
	)

	require.NoError(t, gs.HandlePlayMove("p1", &protocol.PlayMovePayload{Cards: []string{"SKIP"}}))

	err := gs.HandlePlayMove("p2", &protocol.PlayMovePayload{Cards: []string{"NOPE"}})
	assert.Error(t, err)

	// 窗口期内出别的牌同样被拒绝
	err = gs.HandlePlayMove("p2", &protocol.PlayMovePayload{Cards: []string{"BEARD", "BEARD"}})
	assert.Error(t, err)

	waitWindowResolved(t, gs)
}

func TestPairCombo_StealsRandomCard(t *testing.T) {
	room := newFakeRoom("Alice", "Bob")
	gs := newManualSession(room,
		[][]card.Card{{card.Tacocat, card.Tacocat}, {card.Beard}},
		card.Deck{card.Potato},
	)

	err := gs.HandlePlayMove("p1", &protocol.PlayMovePayload{
		Cards:  []string{"TACOCAT", "TACOCAT"},
		Target: "Bob",
	})
	require.NoError(t, err)

	waitWindowResolved(t, gs)

	gs.mu.Lock()
	defer gs.mu.Unlock()
	// Bob 只有一张牌，必然被抽走
	assert.True(t, card.Contains(gs.players[0].Hand, card.Beard))
	assert.Empty(t, gs.players[1].Hand)
	assert.Equal(t, 2, card.Count(gs.discard, card.Tacocat))
}

func TestTripleCombo_DesiredCard(t *testing.T) {
	t.Run("命中", func(t *testing.T) {
		room := newFakeRoom("Alice", "Bob")
		gs := newManualSession(room,
			[][]card.Card{{card.Potato, card.Potato, card.Potato}, {card.Defuse, card.Beard}},
			card.Deck{card.Tacocat},
		)

		err := gs.HandlePlayMove("p1", &protocol.PlayMovePayload{
			Cards:   []string{"POTATO", "POTATO", "POTATO"},
			Target:  "Bob",
			Desired: "DEFUSE",
		})
		require.NoError(t, err)
		waitWindowResolved(t, gs)

		gs.mu.Lock()
		defer gs.mu.Unlock()
		assert.True(t, card.Contains(gs.players[0].Hand, card.Defuse))
		assert.False(t, card.Contains(gs.players[1].Hand, card.Defuse))
	})

	t.Run("未命中时牌照样消耗", func(t *testing.T) {
		room := newFakeRoom("Alice", "Bob")
		gs := newManualSession(room,
			[][]card.Card{{card.Potato, card.Potato, card.Potato}, {card.Beard}},
			card.Deck{card.Tacocat},
		)

		err := gs.HandlePlayMove("p1", &protocol.PlayMovePayload{
			Cards:   []string{"POTATO", "POTATO", "POTATO"},
			Target:  "Bob",
			Desired: "RAINBOW",
		})
		require.NoError(t, err)
		waitWindowResolved(t, gs)

		gs.mu.Lock()
		defer gs.mu.Unlock()
		assert.Empty(t, gs.players[0].Hand)
		assert.Equal(t, 3, card.Count(gs.discard, card.Potato))
		assert.True(t, card.Contains(gs.players[1].Hand, card.Beard))
	})
}

func TestFavor_Flow(t *testing.T) {
	room := newFakeRoom("Alice", "Bob")
	gs := newManualSession(room,
		[][]card.Card{{card.Favor}, {card.Beard, card.Tacocat}},
		card.Deck{card.Potato},
	)

	err := gs.HandlePlayMove("p1", &protocol.PlayMovePayload{
		Cards:  []string{"FAVOR"},
		Target: "Bob",
	})
	require.NoError(t, err)
	waitWindowResolved(t, gs)

	require.Equal(t, PendingFavorResponse, pendingOf(gs))

	// 不是被点名的玩家不能回应
	err = gs.HandleFavorResponse("p1", &protocol.FavorResponsePayload{Card: "BEARD"})
	assert.ErrorIs(t, err, ErrPendingAction)

	// 手里没有的牌不能交
	err = gs.HandleFavorResponse("p2", &protocol.FavorResponsePayload{Card: "RAINBOW"})
	assert.Error(t, err)

	err = gs.HandleFavorResponse("p2", &protocol.FavorResponsePayload{Card: "BEARD"})
	require.NoError(t, err)

	gs.mu.Lock()
	defer gs.mu.Unlock()
	assert.Equal(t, PendingNone, gs.pending)
	assert.True(t, card.Contains(gs.players[0].Hand, card.Beard))
	assert.False(t, card.Contains(gs.players[1].Hand, card.Beard))
}

func TestValidateMove_Rejections(t *testing.T) {
	room := newFakeRoom("Alice", "Bob")
	gs := newManualSession(room,
		[][]card.Card{
			{card.Explode, card.Defuse, card.Nope, card.Beard, card.Tacocat, card.Tacocat, card.Favor, card.Attack},
			{},
		},
		card.Deck{card.Potato},
	)

	cases := []struct {
		name    string
		payload protocol.PlayMovePayload
	}{
		{"爆炸猫不能打出", protocol.PlayMovePayload{Cards: []string{"EXPLODE"}}},
		{"拆弹牌不能打出", protocol.PlayMovePayload{Cards: []string{"DEFUSE"}}},
		{"窗口外不能打 NOPE", protocol.PlayMovePayload{Cards: []string{"NOPE"}}},
		{"普通牌不能单出", protocol.PlayMovePayload{Cards: []string{"BEARD"}}},
		{"组合必须同名", protocol.PlayMovePayload{Cards: []string{"TACOCAT", "BEARD"}, Target: "Bob"}},
		{"组合不能超过三张", protocol.PlayMovePayload{Cards: []string{"TACOCAT", "TACOCAT", "TACOCAT", "TACOCAT"}, Target: "Bob"}},
		{"手牌数量不足", protocol.PlayMovePayload{Cards: []string{"FAVOR", "FAVOR"}, Target: "Bob"}},
		{"索要必须带目标", protocol.PlayMovePayload{Cards: []string{"FAVOR"}}},
		{"目标不能是自己", protocol.PlayMovePayload{Cards: []string{"FAVOR"}, Target: "Alice"}},
		{"目标必须在场", protocol.PlayMovePayload{Cards: []string{"FAVOR"}, Target: "Mallory"}},
		{"组合目标没有手牌", protocol.PlayMovePayload{Cards: []string{"TACOCAT", "TACOCAT"}, Target: "Bob"}},
		{"三张组合必须点名", protocol.PlayMovePayload{Cards: []string{"TACOCAT", "TACOCAT", "TACOCAT"}, Target: "Bob"}},
		{"攻击不需要目标", protocol.PlayMovePayload{Cards: []string{"ATTACK"}, Target: "Bob"}},
		{"不存在的牌名", protocol.PlayMovePayload{Cards: []string{"DRAGON"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := gs.HandlePlayMove("p1", &tc.payload)
			assert.Error(t, err)
			assert.Equal(t, PendingNone, pendingOf(gs))
		})
	}
}

func TestElimination_EndsGame(t *testing.T) {
	room := newFakeRoom("Alice", "Bob")
	gs := newManualSession(room,
		[][]card.Card{{card.Beard}, {card.Defuse}},
		card.Deck{card.Explode},
	)

	err := gs.HandleDraw("p1")
	require.NoError(t, err)

	assert.Equal(t, GameStateEnded, gs.state)
	assert.Equal(t, types.RoomStateEnded, room.state)

	bt := room.broadcastTypes()
	assert.Contains(t, bt, protocol.MsgPlayerEliminated)
	assert.Contains(t, bt, protocol.MsgGameOver)

	// 战绩异步落库：胜者 1 条、出局者 1 条
	assert.Eventually(t, func() bool {
		room.server.lb.mu.Lock()
		defer room.server.lb.mu.Unlock()
		return len(room.server.lb.results) == 2
	}, time.Second, 5*time.Millisecond)

	room.server.lb.mu.Lock()
	defer room.server.lb.mu.Unlock()
	var winner, loser *matchResult
	for i := range room.server.lb.results {
		r := &room.server.lb.results[i]
		if r.won {
			winner = r
		} else {
			loser = r
		}
	}
	require.NotNil(t, winner)
	require.NotNil(t, loser)
	assert.Equal(t, "p2", winner.playerID)
	assert.Equal(t, "p1", loser.playerID)
	assert.True(t, loser.exploded)
}

func TestPlayerDisconnected_ClearsPending(t *testing.T) {
	room := newFakeRoom("Alice", "Bob", "Carol")
	gs := newManualSession(room,
		[][]card.Card{{card.Favor}, {card.Beard}, {card.Defuse}},
		card.Deck{card.Potato, card.Tacocat, card.Explode},
	)

	require.NoError(t, gs.HandlePlayMove("p1", &protocol.PlayMovePayload{
		Cards:  []string{"FAVOR"},
		Target: "Bob",
	}))
	waitWindowResolved(t, gs)
	require.Equal(t, PendingFavorResponse, pendingOf(gs))

	// 被索要的 Bob 掉线：挂起清除并出局，游戏继续
	gs.PlayerDisconnected("p2")

	gs.mu.Lock()
	defer gs.mu.Unlock()
	assert.Equal(t, PendingNone, gs.pending)
	assert.Equal(t, GameStatePlaying, gs.state)
	assert.Len(t, gs.players, 2)
}

func TestTotalCards_Conservation(t *testing.T) {
	room := newFakeRoom("Alice", "Bob", "Carol", "Dave")
	gs := NewGameSession(room, testNopeWindow)

	// 真实发牌，但不启动协调器，推进由测试手动完成
	gs.mu.Lock()
	gs.setupDeckLocked()
	gs.current = 0
	gs.players[0].TurnsOwed = 1
	gs.state = GameStatePlaying
	gs.mu.Unlock()

	assert.Equal(t, card.DeckSize, gs.TotalCards())

	// 连续摸牌，期间可能有人拆弹或出局，守恒始终成立
	for i := 0; i < 8 && gs.state == GameStatePlaying; i++ {
		cur := gs.currentPlayerLocked()
		require.NoError(t, gs.HandleDraw(cur.ID))
		if pendingOf(gs) == PendingInsertExplode {
			require.NoError(t, gs.HandleInsertExplode(cur.ID, &protocol.InsertExplodePayload{Index: 0}))
		}
		if gs.state != GameStatePlaying {
			break
		}
		step(gs)
		assert.Equal(t, card.DeckSize, gs.TotalCards())
	}
}
