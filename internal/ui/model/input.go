package model

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Input placeholders per phase.
const (
	lobbyPlaceholder   = "name <昵称> | create <2-5> | join <房号> | stats | top | quit"
	roomPlaceholder    = "ready | unready | leave | /聊天内容"
	playingPlaceholder = "draw | play <牌...> [@目标] [=点名牌] | nope | /聊天"
)

// handleKey processes one keypress. Returns handled=true when the key
// should not fall through to the text input.
func (m *OnlineModel) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.client.Close()
		return true, tea.Quit

	case "esc":
		switch m.phase {
		case PhaseConnecting, PhaseLobby:
			m.client.Close()
			return true, tea.Quit
		case PhaseStats, PhaseLeaderboard, PhaseGameOver:
			m.EnterLobby()
			return true, nil
		case PhaseRoom:
			_ = m.client.LeaveRoom()
			m.EnterLobby()
			return true, nil
		}
		// In-game leaving is a forfeit, require the typed command.
		return true, nil

	case "enter":
		return true, m.submitCommand()
	}

	return false, nil
}

// submitCommand parses and executes the current input line.
func (m *OnlineModel) submitCommand() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()

	switch m.phase {
	case PhaseGameOver, PhaseStats, PhaseLeaderboard:
		m.EnterLobby()
		return nil
	}

	if line == "" {
		return nil
	}

	if strings.HasPrefix(line, "/") {
		if text := strings.TrimSpace(line[1:]); text != "" {
			_ = m.client.Chat(text)
		}
		return nil
	}

	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch m.phase {
	case PhaseLobby:
		err = m.runLobbyCommand(cmd, args)
	case PhaseRoom:
		err = m.runRoomCommand(cmd)
	case PhasePlaying:
		err = m.runGameCommand(cmd, args)
	default:
		return nil
	}

	if err != nil {
		m.error = err.Error()
		return clearErrorLater()
	}
	if cmd == "quit" {
		m.client.Close()
		return tea.Quit
	}
	return nil
}

func (m *OnlineModel) runLobbyCommand(cmd string, args []string) error {
	switch cmd {
	case "name":
		if len(args) == 0 {
			return errUsage("name <昵称>")
		}
		return m.client.SetName(strings.Join(args, " "))
	case "create":
		seats := 5
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errUsage("create <2-5>")
			}
			seats = n
		}
		return m.client.CreateRoom(seats)
	case "join":
		if len(args) == 0 {
			return errUsage("join <房号>")
		}
		return m.client.JoinRoom(args[0])
	case "stats":
		return m.client.GetStats()
	case "top":
		limit := 10
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				limit = n
			}
		}
		return m.client.GetLeaderboard(limit)
	case "quit":
		return nil
	}
	return errUnknown(cmd)
}

func (m *OnlineModel) runRoomCommand(cmd string) error {
	switch cmd {
	case "ready":
		return m.client.Ready()
	case "unready":
		return m.client.CancelReady()
	case "leave":
		if err := m.client.LeaveRoom(); err != nil {
			return err
		}
		m.EnterLobby()
		return nil
	}
	return errUnknown(cmd)
}

func (m *OnlineModel) runGameCommand(cmd string, args []string) error {
	switch cmd {
	case "draw":
		return m.client.Draw()
	case "play":
		cards, target, desired, err := parseMoveArgs(args)
		if err != nil {
			return err
		}
		return m.client.PlayMove(cards, target, desired)
	case "nope":
		return m.client.PlayMove([]string{"NOPE"}, "", "")
	case "insert":
		if len(args) == 0 {
			return errUsage("insert <下标>")
		}
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return errUsage("insert <下标>")
		}
		if sendErr := m.client.InsertExplode(idx); sendErr != nil {
			return sendErr
		}
		m.game.SetInsertMaxIndex(-1)
		m.input.Placeholder = playingPlaceholder
		return nil
	case "give":
		if len(args) == 0 {
			return errUsage("give <牌名>")
		}
		return m.client.FavorResponse(args[0])
	case "leave":
		if err := m.client.LeaveRoom(); err != nil {
			return err
		}
		m.EnterLobby()
		return nil
	}
	return errUnknown(cmd)
}

// parseMoveArgs splits "play" arguments into cards, an optional @target
// and an optional =desired card.
func parseMoveArgs(args []string) (cards []string, target, desired string, err error) {
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "@"):
			target = a[1:]
		case strings.HasPrefix(a, "="):
			desired = a[1:]
		default:
			cards = append(cards, a)
		}
	}
	if len(cards) == 0 {
		return nil, "", "", errUsage("play <牌...> [@目标] [=点名牌]")
	}
	return cards, target, desired, nil
}

type uiError string

func (e uiError) Error() string { return string(e) }

func errUsage(usage string) error { return uiError("用法: " + usage) }
func errUnknown(cmd string) error { return uiError("未知指令: " + cmd) }
