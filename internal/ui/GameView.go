package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mshel/snakeagent/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type GameState int

const (
	StatePlaying GameState = iota
	StateGameOver
	StateLeaderboard
)

// gameTickMsg repaints the board when the engine had nothing new to say.
type gameTickMsg struct{}

var (
	voidColor    = strconv.Itoa(game.VoidColor)
	snakeColor   = "87"
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	wallStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(game.WallColor))).Render("▒")
	voidStyle   = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Render(" ")
	foodStyle   = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color(strconv.Itoa(game.FoodColor))).Render("●")
	routeStyle  = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color(strconv.Itoa(game.RouteColor))).Render("·")
	headStyle   = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color(snakeColor)).Bold(true)
	bodyStyle   = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color(snakeColor))
	headingText = lipgloss.NewStyle().Bold(true)

	headRunes = map[game.Direction]rune{
		game.North: '▲',
		game.South: '▼',
		game.West:  '◀',
		game.East:  '▶',
	}
)

const (
	mapViewPercentage  = 0.70
	statusPanelPadding = 4
	uiRefreshInterval  = 50 * time.Millisecond
)

type GameViewModel struct {
	ScreenWidth  int
	ScreenHeight int
	gameManager  *game.GameManager // nil when only the leaderboard is shown

	// snapshot is the last frame drawn. It only advances on turns the
	// agent asks to redraw.
	snapshot      game.Snapshot
	hasSnapshot   bool
	lastOutcome   game.TurnOutcome
	gameState     GameState
	gameOverState GameOverState
}

func NewGameModel(gm *game.GameManager, highScores *game.HighScoreService, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		gameManager:  gm,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		gameState:    StatePlaying,
		gameOverState: GameOverState{
			HighScores:     highScores,
			ScreenWidth:    screenWidth,
			ScreenHeight:   screenHeight,
			SelectedButton: 0,
		},
	}
}

func (m GameViewModel) Init() tea.Cmd {
	return m.listenForGameUpdates()
}

// QuitGameMsg is sent to the Controller to switch back to the IntroScreen.
type QuitGameMsg struct{}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.gameOverState.ScreenWidth = msg.Width
		m.gameOverState.ScreenHeight = msg.Height
		return m, nil

	case ShowLeaderboardMsg:
		m.gameState = StateLeaderboard
		return m, nil

	case tea.KeyMsg:
		if m.gameState == StateGameOver || m.gameState == StateLeaderboard {
			return m.updateMenus(msg)
		}

		switch msg.String() {
		case "p", " ":
			if m.gameManager != nil {
				paused := m.gameManager.TogglePause()
				log.Debug("Pause toggled", "paused", paused)
			}
		case "n":
			// Single step while paused.
			if m.gameManager != nil && m.gameManager.Paused() {
				m.lastOutcome = m.gameManager.Step()
				m.refresh(true)
				if m.lastOutcome.SessionOver {
					m.showGameOver()
				}
			}
		case "esc":
			return m, func() tea.Msg { return QuitGameMsg{} }
		}
		return m, nil

	case gameTickMsg:
		return m, m.listenForGameUpdates()

	case game.TurnMsg:
		m.lastOutcome = msg.Outcome
		m.refresh(msg.Outcome.Redraw)
		return m, m.listenForGameUpdates()

	case game.LifeEndedMsg:
		m.gameOverState.LastLife = msg.Life
		m.gameOverState.HasLastLife = true
		return m, m.listenForGameUpdates()

	case game.SessionOverMsg:
		log.Info("Session over, showing Game Over screen.", "lives", msg.Lives, "best", msg.BestScore)
		m.showGameOver()
		return m, nil
	}

	return m, nil
}

func (m *GameViewModel) refresh(redraw bool) {
	if m.gameManager == nil || (!redraw && m.hasSnapshot) {
		return
	}
	m.snapshot = m.gameManager.Snapshot()
	m.hasSnapshot = true
}

func (m *GameViewModel) showGameOver() {
	m.gameState = StateGameOver
	m.gameOverState.SelectedButton = 0
	if m.gameManager != nil {
		m.gameOverState.Lives = m.gameManager.Lives()
		m.gameOverState.BestScore = m.gameManager.BestScore()
	}
}

func (m GameViewModel) updateMenus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	back := func() (tea.Model, tea.Cmd) {
		if m.gameManager != nil {
			m.gameState = StateGameOver
			return m, nil
		}
		return m, func() tea.Msg { return QuitGameMsg{} }
	}

	switch msg.String() {
	case "esc":
		if m.gameState == StateLeaderboard {
			return back()
		}
		return m, func() tea.Msg { return QuitGameMsg{} }
	case "left", "h":
		if m.gameState == StateGameOver {
			m.gameOverState.SelectedButton = max(0, m.gameOverState.SelectedButton-1)
		}
	case "right", "l":
		if m.gameState == StateGameOver {
			m.gameOverState.SelectedButton = min(1, m.gameOverState.SelectedButton+1)
		}
	case "enter":
		switch m.gameState {
		case StateGameOver:
			// 0: Exit, 1: Leaderboard
			if m.gameOverState.SelectedButton == 0 {
				return m, func() tea.Msg { return QuitGameMsg{} }
			}
			m.gameState = StateLeaderboard
		case StateLeaderboard:
			return back()
		}
	}
	return m, nil
}

func (m GameViewModel) View() string {
	if m.gameState == StateGameOver {
		return m.gameOverState.RenderGameOverScreen()
	}
	if m.gameState == StateLeaderboard {
		return m.gameOverState.RenderLeaderboardScreen()
	}
	if m.gameManager == nil {
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, "Waiting for game manager...")
	}

	snapshot := m.snapshot
	if !m.hasSnapshot {
		snapshot = m.gameManager.Snapshot()
	}
	mapWidth := int(float64(m.ScreenWidth) * mapViewPercentage)
	statusPanelWidth := m.ScreenWidth - mapWidth - statusPanelPadding

	mapContent := renderMap(snapshot, mapWidth, m.ScreenHeight)
	statusContent := m.renderStatusPanel(snapshot)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		mapViewStyle.Width(mapWidth).Height(m.ScreenHeight).Render(mapContent),
		statusPanelStyle.Width(statusPanelWidth).Height(m.ScreenHeight).Render(statusContent),
	)
}

// viewport picks the window of length size along an axis of length total
// that keeps center in the middle where possible.
func viewport(center, size, total int) (int, int) {
	size = min(total, size)
	start := max(0, center-size/2)
	if start+size > total {
		start = max(0, total-size)
	}
	return start, min(total, start+size)
}

func renderMap(s game.Snapshot, width int, height int) string {
	grid := s.Grid
	startCol, endCol := viewport(s.Head.X, width, grid.Width())
	startRow, endRow := viewport(s.Head.Y, height, grid.Height())

	route := make(map[game.Position]bool, len(s.Insight.Route))
	for _, p := range s.Insight.Route {
		route[p] = true
	}
	body := bodyRunes(s.Head, s.Body)

	var sb strings.Builder
	for y := startRow; y < endRow; y++ {
		for x := startCol; x < endCol; x++ {
			p := game.Position{X: x, Y: y}
			switch grid.At(p) {
			case game.CellWall:
				sb.WriteString(wallStyle)
			case game.CellFood:
				sb.WriteString(foodStyle)
			case game.CellSnakeHead:
				sb.WriteString(headStyle.Render(string(headRunes[s.Direction])))
			case game.CellSnakeBody:
				sb.WriteString(bodyStyle.Render(body[p]))
			default:
				if route[p] {
					sb.WriteString(routeStyle)
				} else {
					sb.WriteString(voidStyle)
				}
			}
		}
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(sb.String())
}

// bodyRunes joins each body segment to the segments before and after it.
func bodyRunes(head game.Position, body []game.Position) map[game.Position]string {
	runes := make(map[game.Position]string, len(body))
	prev := head
	for i, p := range body {
		links := map[game.Direction]bool{}
		if d, ok := game.DirectionOf(game.Delta(p, prev)); ok {
			links[d] = true
		}
		if i+1 < len(body) {
			if d, ok := game.DirectionOf(game.Delta(p, body[i+1])); ok {
				links[d] = true
			}
		}
		hasUp, hasDown, hasLeft, hasRight := links[game.North], links[game.South], links[game.West], links[game.East]

		var bodyRune string
		switch {
		case (hasUp && hasDown) || (hasUp && !hasLeft && !hasRight && !hasDown) || (hasDown && !hasLeft && !hasRight && !hasUp):
			bodyRune = "│"
		case (hasLeft && hasRight) || (hasLeft && !hasUp && !hasDown && !hasRight) || (hasRight && !hasUp && !hasDown && !hasLeft):
			bodyRune = "─"
		case hasUp && hasRight:
			bodyRune = "└"
		case hasUp && hasLeft:
			bodyRune = "┘"
		case hasDown && hasRight:
			bodyRune = "┌"
		case hasDown && hasLeft:
			bodyRune = "┐"
		default:
			bodyRune = "•"
		}
		runes[p] = bodyRune
		prev = p
	}
	return runes
}

func (m GameViewModel) renderStatusPanel(s game.Snapshot) string {
	var statusContent strings.Builder

	statusContent.WriteString(headingText.Render("--- Agent ---") + "\n")
	statusContent.WriteString(fmt.Sprintf("%s%s\n", bodyStyle.Render("● "), s.AgentName))
	statusContent.WriteString(fmt.Sprintf("Score: %d\n", s.Score))
	statusContent.WriteString(fmt.Sprintf("Turns alive: %d\n", s.TurnsAlive))
	if s.TurnsToStarve < 0 {
		statusContent.WriteString("Starves in: never\n")
	} else {
		statusContent.WriteString(fmt.Sprintf("Starves in: %d\n", s.TurnsToStarve))
	}
	statusContent.WriteString(fmt.Sprintf("Direction: %c\n", headRunes[s.Direction]))

	statusContent.WriteString("\n" + headingText.Render("--- Session ---") + "\n")
	statusContent.WriteString(fmt.Sprintf("Turn: %d\n", s.Turn))
	statusContent.WriteString(fmt.Sprintf("Lives used: %d\n", s.Lives))
	statusContent.WriteString(fmt.Sprintf("Best score: %d\n", s.BestScore))
	if m.gameOverState.HasLastLife {
		last := m.gameOverState.LastLife
		statusContent.WriteString(fmt.Sprintf("Last death: %s (score %d)\n", last.Cause, last.Score))
	}

	statusContent.WriteString("\n" + headingText.Render("--- Plan ---") + "\n")
	switch {
	case s.Insight.Fallback:
		statusContent.WriteString("Fallback move\n")
	case s.Insight.HasTarget:
		statusContent.WriteString(fmt.Sprintf("Target: %s (%d away)\n", s.Insight.Target, game.GetManhattanDistance(s.Head, s.Insight.Target)))
		statusContent.WriteString(fmt.Sprintf("Route: %d steps\n", len(s.Insight.Route)))
	default:
		statusContent.WriteString("No plan shown\n")
	}
	if m.lastOutcome.Turn > 0 {
		statusContent.WriteString(fmt.Sprintf("Last move: %s\n", m.lastOutcome.Move))
	}

	statusContent.WriteString("\n" + headingText.Render("--- Controls ---") + "\n")
	statusContent.WriteString("P / Space: Pause\n")
	statusContent.WriteString("N: Step while paused\n")
	statusContent.WriteString("Q / Ctrl+C: Quit\n")
	if m.gameManager.Paused() {
		statusContent.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render("PAUSED"))
	}

	return statusContent.String()
}

func (m GameViewModel) listenForGameUpdates() tea.Cmd {
	return tea.Tick(uiRefreshInterval, func(t time.Time) tea.Msg {
		if m.gameManager == nil {
			return gameTickMsg{}
		}
		select {
		case msg := <-m.gameManager.UpdateChannel:
			return msg
		default:
			return gameTickMsg{}
		}
	})
}
