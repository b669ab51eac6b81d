// Package model defines the core types for the UI.
package model

import (
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
)

// GamePhase represents the current game phase.
type GamePhase int

const (
	PhaseConnecting GamePhase = iota
	PhaseLobby
	PhaseRoom
	PhasePlaying
	PhaseGameOver
	PhaseStats
	PhaseLeaderboard
)

// --- Tea Messages ---

// ServerMessage wraps a protocol message for tea.Msg.
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg indicates successful connection.
type ConnectedMsg struct{}

// ConnectionErrorMsg indicates a connection error.
type ConnectionErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the transient error line.
type ClearErrorMsg struct{}
