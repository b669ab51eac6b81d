package model

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol/encoding"
)

// handleServerMessage applies one server message to the model.
func (m *OnlineModel) handleServerMessage(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgConnected:
		if p, err := encoding.ParsePayload[protocol.ConnectedPayload](msg); err == nil {
			m.playerID = p.PlayerID
			m.playerName = p.PlayerName
		}

	case protocol.MsgRoomCreated:
		if p, err := encoding.ParsePayload[protocol.RoomCreatedPayload](msg); err == nil {
			m.game.SetRoom(p.RoomCode, p.Seats, []protocol.PlayerInfo{
				{Name: m.playerName, Seat: 1},
			})
			m.enterRoom()
		}

	case protocol.MsgRoomJoined:
		if p, err := encoding.ParsePayload[protocol.RoomJoinedPayload](msg); err == nil {
			m.game.SetRoom(p.RoomCode, p.Seats, p.Players)
			m.enterRoom()
		}

	case protocol.MsgPlayerJoined:
		if p, err := encoding.ParsePayload[protocol.PlayerEventPayload](msg); err == nil {
			m.game.UpsertRoomPlayer(p.PlayerName, p.Seat, false)
			m.game.AddEvent("%s 加入了房间", p.PlayerName)
		}

	case protocol.MsgPlayerLeft:
		if p, err := encoding.ParsePayload[protocol.PlayerEventPayload](msg); err == nil {
			m.game.RemoveRoomPlayer(p.PlayerName)
			m.game.AddEvent("%s 离开了房间", p.PlayerName)
		}

	case protocol.MsgPlayerReady:
		if p, err := encoding.ParsePayload[protocol.PlayerEventPayload](msg); err == nil {
			m.game.UpsertRoomPlayer(p.PlayerName, p.Seat, p.Ready)
		}

	case protocol.MsgGameStart:
		if p, err := encoding.ParsePayload[protocol.GameStartPayload](msg); err == nil {
			m.game.Reset()
			m.game.SetPlayers(p.Players)
			m.phase = PhasePlaying
			m.game.AddEvent("游戏开始，%s 先行动", p.FirstPlayer)
			m.input.Placeholder = playingPlaceholder
		}

	case protocol.MsgHandUpdate:
		if p, err := encoding.ParsePayload[protocol.HandUpdatePayload](msg); err == nil {
			m.game.SetHand(p.Cards)
		}

	case protocol.MsgTurnUpdate:
		if p, err := encoding.ParsePayload[protocol.TurnUpdatePayload](msg); err == nil {
			m.game.SetTurn(*p)
			m.game.SetMovePending(false)
		}

	case protocol.MsgMovePending:
		if p, err := encoding.ParsePayload[protocol.MovePendingPayload](msg); err == nil {
			m.game.SetMovePending(true)
			line := fmt.Sprintf("%s 打出 %s", p.PlayerName, strings.Join(p.Cards, "+"))
			if p.Target != "" {
				line += fmt.Sprintf(" → %s", p.Target)
			}
			m.game.AddEvent("%s（%d 秒内可 NOPE）", line, p.Seconds)
		}

	case protocol.MsgNopePlayed:
		if p, err := encoding.ParsePayload[protocol.NopePlayedPayload](msg); err == nil {
			m.game.AddEvent("%s 打出 NOPE！（第 %d 张）", p.PlayerName, p.Count)
		}

	case protocol.MsgMoveResult:
		if p, err := encoding.ParsePayload[protocol.MoveResultPayload](msg); err == nil {
			m.game.SetMovePending(false)
			if p.Executed {
				m.game.AddEvent("%s 的 %s 生效", p.PlayerName, strings.Join(p.Cards, "+"))
			} else {
				m.game.AddEvent("%s 的 %s 被否决作废", p.PlayerName, strings.Join(p.Cards, "+"))
			}
		}

	case protocol.MsgCardPlayed:
		if p, err := encoding.ParsePayload[protocol.CardPlayedPayload](msg); err == nil {
			if p.Target != "" {
				m.game.AddEvent("%s 对 %s 使用 %s", p.PlayerName, p.Target, strings.Join(p.Cards, "+"))
			} else {
				m.game.AddEvent("%s 使用 %s", p.PlayerName, strings.Join(p.Cards, "+"))
			}
		}

	case protocol.MsgSeeFuture:
		if p, err := encoding.ParsePayload[protocol.SeeFuturePayload](msg); err == nil {
			m.game.AddEvent("牌堆顶: %s", strings.Join(p.Cards, ", "))
		}

	case protocol.MsgFavorRequest:
		if p, err := encoding.ParsePayload[protocol.FavorRequestPayload](msg); err == nil {
			m.game.SetFavorFrom(p.FromPlayer)
			m.game.AddEvent("%s 向你索要一张牌", p.FromPlayer)
			m.input.Placeholder = "give <牌名>"
		}

	case protocol.MsgFavorResult:
		if p, err := encoding.ParsePayload[protocol.FavorResultPayload](msg); err == nil {
			m.game.SetFavorFrom("")
			m.game.AddEvent("%s 交给 %s 一张 %s", p.FromPlayer, p.ToPlayer, p.Card)
			m.input.Placeholder = playingPlaceholder
		}

	case protocol.MsgStealResult:
		if p, err := encoding.ParsePayload[protocol.StealResultPayload](msg); err == nil {
			switch {
			case p.Card != "":
				m.game.AddEvent("%s 从 %s 手中拿到 %s", p.ToPlayer, p.FromPlayer, p.Card)
			case p.Found:
				m.game.AddEvent("%s 从 %s 手中拿到一张牌", p.ToPlayer, p.FromPlayer)
			default:
				m.game.AddEvent("%s 没有那张牌，索要落空", p.FromPlayer)
			}
		}

	case protocol.MsgInsertRequest:
		if p, err := encoding.ParsePayload[protocol.InsertRequestPayload](msg); err == nil {
			m.game.SetInsertMaxIndex(p.MaxIndex)
			m.input.Placeholder = fmt.Sprintf("insert <0-%d>（0 为牌堆底）", p.MaxIndex)
		}

	case protocol.MsgExplodeDefused:
		if p, err := encoding.ParsePayload[protocol.ExplodeDefusedPayload](msg); err == nil {
			m.game.AddEvent("%s 摸到爆炸猫，用拆弹牌化解！", p.PlayerName)
			if p.PlayerName != m.playerName {
				m.game.AddEvent("%s 正在把爆炸猫插回牌堆...", p.PlayerName)
			}
		}

	case protocol.MsgPlayerEliminated:
		if p, err := encoding.ParsePayload[protocol.PlayerEliminatedPayload](msg); err == nil {
			m.game.AddEvent("💥 %s 爆炸出局，剩余 %d 人", p.PlayerName, p.Remaining)
		}

	case protocol.MsgGameOver:
		if p, err := encoding.ParsePayload[protocol.GameOverPayload](msg); err == nil {
			m.game.SetWinner(p.Winner)
			m.phase = PhaseGameOver
			m.input.Placeholder = "回车返回大厅"
		}

	case protocol.MsgChat:
		if p, err := encoding.ParsePayload[protocol.ChatPayload](msg); err == nil {
			m.game.AddChatMessage(fmt.Sprintf("%s: %s", p.PlayerName, p.Text))
		}

	case protocol.MsgStats:
		if p, err := encoding.ParsePayload[protocol.StatsPayload](msg); err == nil {
			m.stats = p
			m.phase = PhaseStats
		}

	case protocol.MsgLeaderboard:
		if p, err := encoding.ParsePayload[protocol.LeaderboardPayload](msg); err == nil {
			m.leaderboard = p.Entries
			m.phase = PhaseLeaderboard
		}

	case protocol.MsgError:
		if p, err := encoding.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.error = p.Message
			return clearErrorLater()
		}
	}

	return nil
}

// enterRoom switches to the waiting room view.
func (m *OnlineModel) enterRoom() {
	m.phase = PhaseRoom
	m.error = ""
	m.input.Reset()
	m.input.Placeholder = roomPlaceholder
}
