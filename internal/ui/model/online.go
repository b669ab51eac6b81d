// Package model contains the UI model implementations.
package model

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kapi-hub/exploding-kittens/internal/network/client"
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
)

// OnlineModel is the main model for online game mode.
type OnlineModel struct {
	client *client.Client
	phase  GamePhase
	error  string

	// Player info
	playerID   string
	playerName string

	// Sub-model
	game *GameModel

	// Lobby query results
	stats       *protocol.StatsPayload
	leaderboard []protocol.LeaderboardEntry

	// UI components
	input  textinput.Model
	width  int
	height int
}

// NewOnlineModel creates a new OnlineModel.
func NewOnlineModel(serverURL string) *OnlineModel {
	ti := textinput.New()
	ti.Placeholder = lobbyPlaceholder
	ti.CharLimit = 60
	ti.Width = 44
	ti.Focus()

	return &OnlineModel{
		client: client.NewClient(serverURL),
		phase:  PhaseConnecting,
		game:   NewGameModel(),
		input:  ti,
	}
}

func (m *OnlineModel) Init() tea.Cmd {
	return tea.Batch(
		m.connectToServer(),
		textinput.Blink,
	)
}

func (m *OnlineModel) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func (m *OnlineModel) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

// Phase returns the current phase.
func (m *OnlineModel) Phase() GamePhase { return m.phase }

// PlayerName returns my nickname.
func (m *OnlineModel) PlayerName() string { return m.playerName }

// Game returns the table sub-model.
func (m *OnlineModel) Game() *GameModel { return m.game }

// Error returns the transient error line.
func (m *OnlineModel) Error() string { return m.error }

// SetError sets the transient error line.
func (m *OnlineModel) SetError(e string) { m.error = e }

// EnterLobby resets the model back to the lobby.
func (m *OnlineModel) EnterLobby() {
	m.phase = PhaseLobby
	m.error = ""
	m.game.Reset()
	m.input.Reset()
	m.input.Placeholder = lobbyPlaceholder
	m.input.Focus()
}

// Update handles tea messages.
func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ConnectedMsg:
		m.EnterLobby()
		m.playerID = m.client.PlayerID
		m.playerName = m.client.PlayerName
		cmds = append(cmds, m.listenForMessages())

	case ConnectionErrorMsg:
		m.error = fmt.Sprintf("无法连接到服务器: %v\n\n按 ESC 退出", msg.Err)
		m.phase = PhaseConnecting

	case ClearErrorMsg:
		m.error = ""

	case ServerMessage:
		if cmd := m.handleServerMessage(msg.Msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}

	case tea.KeyMsg:
		handled, keyCmd := m.handleKey(msg)
		if keyCmd != nil {
			cmds = append(cmds, keyCmd)
		}
		if handled {
			return m, tea.Batch(cmds...)
		}
	}

	newInput, cmd := m.input.Update(msg)
	m.input = newInput
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// clearErrorLater schedules the transient error line to disappear.
func clearErrorLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}
