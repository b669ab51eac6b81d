// Package model contains the UI model implementations.
package model

import (
	"fmt"

	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
)

// maxEventLines is how many event log lines the game view keeps.
const maxEventLines = 12

// GameModel holds the table state visible to this player.
type GameModel struct {
	// Seating order as announced at game start.
	players []string

	// Room state before the game starts.
	roomCode  string
	seats     int
	roomInfos []protocol.PlayerInfo

	// Table state from turn_update broadcasts.
	currentTurn string
	turnsOwed   int
	deckSize    int
	discardTop  string

	// My hand, replaced wholesale by each hand_update.
	hand []string

	// Pending prompts addressed to me.
	insertMaxIndex int    // -1 means no insert prompt
	favorFrom      string // non-empty means someone demands a card

	// Nope window currently open on someone's move.
	movePending bool

	winner string

	// Rolling event log shown next to the table.
	events []string

	chatHistory []string
}

// NewGameModel creates an empty GameModel.
func NewGameModel() *GameModel {
	return &GameModel{insertMaxIndex: -1}
}

// Reset clears all per-match state, keeping the room membership.
func (g *GameModel) Reset() {
	g.players = nil
	g.currentTurn = ""
	g.turnsOwed = 0
	g.deckSize = 0
	g.discardTop = ""
	g.hand = nil
	g.insertMaxIndex = -1
	g.favorFrom = ""
	g.movePending = false
	g.winner = ""
	g.events = nil
}

func (g *GameModel) Players() []string     { return g.players }
func (g *GameModel) RoomCode() string      { return g.roomCode }
func (g *GameModel) Seats() int            { return g.seats }
func (g *GameModel) CurrentTurn() string   { return g.currentTurn }
func (g *GameModel) TurnsOwed() int        { return g.turnsOwed }
func (g *GameModel) DeckSize() int         { return g.deckSize }
func (g *GameModel) DiscardTop() string    { return g.discardTop }
func (g *GameModel) Hand() []string        { return g.hand }
func (g *GameModel) InsertMaxIndex() int   { return g.insertMaxIndex }
func (g *GameModel) FavorFrom() string     { return g.favorFrom }
func (g *GameModel) MovePending() bool     { return g.movePending }
func (g *GameModel) Winner() string        { return g.winner }
func (g *GameModel) Events() []string      { return g.events }
func (g *GameModel) ChatHistory() []string { return g.chatHistory }

func (g *GameModel) SetRoom(code string, seats int, infos []protocol.PlayerInfo) {
	g.roomCode = code
	g.seats = seats
	g.roomInfos = infos
}

// RoomInfos returns the seat list of the current room.
func (g *GameModel) RoomInfos() []protocol.PlayerInfo { return g.roomInfos }

// UpsertRoomPlayer records a join or ready-state change for a seat.
func (g *GameModel) UpsertRoomPlayer(name string, seat int, ready bool) {
	for i := range g.roomInfos {
		if g.roomInfos[i].Name == name {
			g.roomInfos[i].Seat = seat
			g.roomInfos[i].Ready = ready
			return
		}
	}
	g.roomInfos = append(g.roomInfos, protocol.PlayerInfo{Name: name, Seat: seat, Ready: ready})
}

// RemoveRoomPlayer drops a player from the seat list.
func (g *GameModel) RemoveRoomPlayer(name string) {
	for i := range g.roomInfos {
		if g.roomInfos[i].Name == name {
			g.roomInfos = append(g.roomInfos[:i], g.roomInfos[i+1:]...)
			return
		}
	}
}

func (g *GameModel) SetHand(cards []string) { g.hand = cards }

func (g *GameModel) SetTurn(p protocol.TurnUpdatePayload) {
	g.currentTurn = p.CurrentPlayer
	g.turnsOwed = p.TurnsOwed
	g.deckSize = p.DeckSize
	g.discardTop = p.DiscardTop
}

func (g *GameModel) SetInsertMaxIndex(idx int) { g.insertMaxIndex = idx }
func (g *GameModel) SetFavorFrom(name string)  { g.favorFrom = name }
func (g *GameModel) SetMovePending(v bool)     { g.movePending = v }
func (g *GameModel) SetWinner(name string)     { g.winner = name }
func (g *GameModel) SetPlayers(names []string) { g.players = names }

// AddEvent appends a line to the rolling event log.
func (g *GameModel) AddEvent(format string, args ...any) {
	g.events = append(g.events, fmt.Sprintf(format, args...))
	if len(g.events) > maxEventLines {
		g.events = g.events[len(g.events)-maxEventLines:]
	}
}

// AddChatMessage appends a chat line, keeping the last 50.
func (g *GameModel) AddChatMessage(msg string) {
	g.chatHistory = append(g.chatHistory, msg)
	if len(g.chatHistory) > 50 {
		g.chatHistory = g.chatHistory[len(g.chatHistory)-50:]
	}
}
