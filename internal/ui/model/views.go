package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Lipgloss styles shared by all phase views.
var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	turnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptStyle = lipgloss.NewStyle().MarginTop(1)
)

// View renders the model.
func (m *OnlineModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.phase {
	case PhaseConnecting:
		content = m.connectingView()
	case PhaseLobby:
		content = m.lobbyView()
	case PhaseRoom:
		content = m.roomView()
	case PhasePlaying:
		content = m.playingView()
	case PhaseGameOver:
		content = m.gameOverView()
	case PhaseStats:
		content = m.statsView()
	case PhaseLeaderboard:
		content = m.leaderboardView()
	}

	return docStyle.Render(content)
}

func (m *OnlineModel) connectingView() string {
	msg := "正在连接服务器..."
	if m.error != "" {
		msg = errorStyle.Render(m.error)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m *OnlineModel) lobbyView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("🐱💣 爆炸猫"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("你好，%s\n\n", m.playerName))
	sb.WriteString("  name <昵称>   修改昵称\n")
	sb.WriteString("  create <2-5>  创建房间\n")
	sb.WriteString("  join <房号>   加入房间\n")
	sb.WriteString("  stats         我的战绩\n")
	sb.WriteString("  top           排行榜\n")
	sb.WriteString("  quit          退出\n")
	return m.withPrompt(sb.String())
}

func (m *OnlineModel) roomView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle(fmt.Sprintf("房间 %s（%d 座）", m.game.RoomCode(), m.game.Seats())))
	sb.WriteString("\n\n")
	for _, p := range m.game.RoomInfos() {
		mark := mutedStyle.Render("等待中")
		if p.Ready {
			mark = turnStyle.Render("已准备")
		}
		name := p.Name
		if name == m.playerName {
			name += "（你）"
		}
		sb.WriteString(fmt.Sprintf("  座位 %d  %-20s %s\n", p.Seat, name, mark))
	}
	sb.WriteString("\n")
	sb.WriteString(m.chatBox())
	return m.withPrompt(sb.String())
}

func (m *OnlineModel) playingView() string {
	g := m.game

	var sb strings.Builder
	sb.WriteString(titleStyle("🐱💣 爆炸猫"))
	sb.WriteString("   ")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("牌堆剩余 %d 张", g.DeckSize())))
	sb.WriteString("\n\n")

	// Turn banner
	if g.CurrentTurn() == m.playerName {
		banner := fmt.Sprintf("轮到你了（还需行动 %d 次）", g.TurnsOwed())
		if g.InsertMaxIndex() >= 0 {
			banner = fmt.Sprintf("选择爆炸猫插回位置 0-%d（0 为牌堆底）", g.InsertMaxIndex())
		}
		sb.WriteString(turnStyle.Render(banner))
	} else {
		sb.WriteString(fmt.Sprintf("当前回合: %s", g.CurrentTurn()))
	}
	if g.MovePending() {
		sb.WriteString(mutedStyle.Render("  [否决窗口开启，可输入 nope]"))
	}
	sb.WriteString("\n")

	if top := g.DiscardTop(); top != "" {
		sb.WriteString(fmt.Sprintf("弃牌堆顶: %s\n", cardStyle.Render(top)))
	}
	sb.WriteString("\n")

	// Event log
	if events := g.Events(); len(events) > 0 {
		sb.WriteString(boxStyle.Render(strings.Join(events, "\n")))
		sb.WriteString("\n\n")
	}

	// My hand
	sb.WriteString("手牌: ")
	if len(g.Hand()) == 0 {
		sb.WriteString(mutedStyle.Render("（空）"))
	} else {
		rendered := make([]string, len(g.Hand()))
		for i, c := range g.Hand() {
			rendered[i] = cardStyle.Render(c)
		}
		sb.WriteString(strings.Join(rendered, " "))
	}
	sb.WriteString("\n")

	if from := g.FavorFrom(); from != "" {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("%s 在等你交牌，输入 give <牌名>", from)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.chatBox())
	return m.withPrompt(sb.String())
}

func (m *OnlineModel) gameOverView() string {
	var sb strings.Builder
	if m.game.Winner() == m.playerName {
		sb.WriteString(titleStyle("🏆 你赢了！"))
	} else {
		sb.WriteString(titleStyle(fmt.Sprintf("比赛结束，%s 获胜", m.game.Winner())))
	}
	sb.WriteString("\n\n")
	if events := m.game.Events(); len(events) > 0 {
		sb.WriteString(boxStyle.Render(strings.Join(events, "\n")))
		sb.WriteString("\n\n")
	}
	sb.WriteString(mutedStyle.Render("按回车返回大厅"))
	return sb.String()
}

func (m *OnlineModel) statsView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("我的战绩"))
	sb.WriteString("\n\n")
	if s := m.stats; s != nil {
		rank := "未上榜"
		if s.Rank > 0 {
			rank = fmt.Sprintf("第 %d 名", s.Rank)
		}
		sb.WriteString(fmt.Sprintf("  总场次: %d\n", s.TotalGames))
		sb.WriteString(fmt.Sprintf("  胜场:   %d（胜率 %.1f%%）\n", s.Wins, s.WinRate))
		sb.WriteString(fmt.Sprintf("  被炸:   %d\n", s.Explosions))
		sb.WriteString(fmt.Sprintf("  积分:   %d\n", s.Score))
		sb.WriteString(fmt.Sprintf("  排名:   %s\n", rank))
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("按回车返回大厅"))
	return sb.String()
}

func (m *OnlineModel) leaderboardView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("🏆 排行榜"))
	sb.WriteString("\n\n")
	if len(m.leaderboard) == 0 {
		sb.WriteString(mutedStyle.Render("  暂无数据\n"))
	}
	for _, e := range m.leaderboard {
		sb.WriteString(fmt.Sprintf("  %2d. %-20s %5d 分  %d 胜（%.1f%%）\n",
			e.Rank, e.PlayerName, e.Score, e.Wins, e.WinRate))
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("按回车返回大厅"))
	return sb.String()
}

// chatBox renders the recent chat lines, if any.
func (m *OnlineModel) chatBox() string {
	history := m.game.ChatHistory()
	if len(history) == 0 {
		return ""
	}
	start := 0
	if len(history) > 5 {
		start = len(history) - 5
	}
	return boxStyle.Render("💬 "+strings.Join(history[start:], "\n")) + "\n"
}

// withPrompt appends the error line and the input prompt.
func (m *OnlineModel) withPrompt(content string) string {
	var sb strings.Builder
	sb.WriteString(content)
	if m.error != "" {
		sb.WriteString(errorStyle.Render(m.error))
		sb.WriteString("\n")
	}
	sb.WriteString(promptStyle.Render("> " + m.input.View()))
	return sb.String()
}
